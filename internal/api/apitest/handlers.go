package apitest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vtruck/internal/domain"
	"vtruck/internal/geo"
)

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": s.settings})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		invalid(w, map[string][]string{"phone": {"The phone field is required."}})
		return
	}
	phone, password := r.PostForm.Get("phone"), r.PostForm.Get("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[phone]
	if !ok || acct.password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthToken{Token: s.issueLocked(phone), Role: wireRole(acct.role)})
}

func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		invalid(w, map[string][]string{"phone": {"The phone field is required."}})
		return
	}
	s.mu.Lock()
	_, ok := s.accounts[req.Phone]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Phone number is not registered"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPVerification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalid(w, map[string][]string{"otp": {"The otp field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[req.Phone]
	if !ok || req.OTP != s.OTP {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid OTP"})
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthToken{Token: s.issueLocked(req.Phone), Role: wireRole(acct.role)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
		UserType string `json:"user_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalid(w, map[string][]string{"name": {"The name field is required."}})
		return
	}
	role, err := domain.ParseRole(req.UserType)
	if err != nil {
		invalid(w, map[string][]string{"user_type": {"The selected user type is invalid."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Phone]; exists {
		invalid(w, map[string][]string{"phone": {"The phone has already been taken."}})
		return
	}
	s.accounts[req.Phone] = &account{
		user:     domain.User{ID: s.id(), Name: req.Name, Phone: domain.Text(req.Phone), Email: req.Email, UserType: string(role)},
		password: req.Password,
		role:     role,
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registered successfully"})
}

func (s *Server) handleCountries(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.countries)
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.countries, func(c domain.Country) bool { return c.ID.String() == r.PathValue("id") }) {
		writeJSON(w, http.StatusOK, []domain.State{})
		return
	}
	writeJSON(w, http.StatusOK, s.states)
}

func (s *Server) handleVehicleTypes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": s.vehicleTypes})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": acct.user, "kyc_status": acct.kyc})
}

func (s *Server) handleCreateLoad(w http.ResponseWriter, r *http.Request, acct *account) {
	var in domain.NewLoad
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		invalid(w, map[string][]string{"pickup_location": {"The pickup location field is required."}})
		return
	}
	fields := map[string][]string{}
	if in.PickupLocation == "" {
		fields["pickup_location"] = []string{"The pickup location field is required."}
	}
	if in.MaterialName == "" {
		fields["material_name"] = []string{"The material name field is required."}
	}
	if len(fields) > 0 {
		invalid(w, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	load := domain.Load{
		ID:              s.id(),
		PickupLocation:  in.PickupLocation,
		DropoffLocation: in.DropoffLocation,
		PickLat:         domain.Float(in.PickLat),
		PickLng:         domain.Float(in.PickLng),
		DropLat:         domain.Float(in.DropLat),
		DropLng:         domain.Float(in.DropLng),
		PickStateID:     in.PickStateID,
		DropStateID:     in.DropStateID,
		MaterialName:    in.MaterialName,
		Weight:          decimal.NewFromFloat(in.Weight),
		Description:     in.Description,
		Amount:          in.Amount,
		AmountType:      in.AmountType,
		TotalAmount:     in.TotalAmount,
		LoadStatus:      domain.LoadPending,
		LoadType:        in.LoadType,
		VisibleHours:    domain.Float(in.VisibleHours),
		VehicleType:     in.VehicleType,
		CreatedAt:       s.stamp(),
	}
	s.loads = append(s.loads, &loadRecord{load: load, owner: acct.user.Phone.String()})
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Load posted", "data": load})
}

func (s *Server) handleMyLoads(w http.ResponseWriter, r *http.Request, acct *account) {
	status := domain.LoadStatus(r.URL.Query().Get("load_status"))
	loadType := domain.LoadType(r.URL.Query().Get("load_type"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Load{}
	for _, rec := range s.loads {
		if !s.visibleToLocked(rec, acct) {
			continue
		}
		if status != "" && rec.load.LoadStatus != status {
			continue
		}
		if loadType != "" && rec.load.LoadType != loadType {
			continue
		}
		out = append(out, rec.load)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"current_page": 1, "data": out}})
}

// visibleToLocked reports whether a load belongs in the caller's own list:
// shippers see what they posted, drivers and transporters see loads one of
// their vehicles bid on.
func (s *Server) visibleToLocked(rec *loadRecord, acct *account) bool {
	phone := acct.user.Phone.String()
	if acct.role == domain.RoleShipper {
		return rec.owner == phone
	}
	for _, b := range s.bids[rec.load.ID] {
		if b.User != nil && b.User.Phone.String() == phone {
			return true
		}
	}
	return false
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.loadLocked(domain.ID(r.PathValue("id")))
	if rec == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"load": rec.load})
}

func (s *Server) handleLoadBids(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bids := s.bids[domain.ID(r.PathValue("id"))]
	if bids == nil {
		bids = []domain.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

func (s *Server) handleAcceptBid(w http.ResponseWriter, r *http.Request, acct *account) {
	bidID := domain.ID(r.PathValue("id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for loadID, bids := range s.bids {
		for i := range bids {
			if bids[i].ID != bidID {
				continue
			}
			rec := s.loadLocked(loadID)
			if rec == nil || rec.owner != acct.user.Phone.String() {
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "Not your load"})
				return
			}
			bids[i].Status = domain.BidAccepted
			rec.load.LoadStatus = domain.LoadAssigned
			writeJSON(w, http.StatusOK, map[string]string{"message": "Bid accepted"})
			return
		}
	}
	notFound(w)
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request, acct *account) {
	var in struct {
		LoadID      domain.ID   `json:"load_id"`
		VehicleID   domain.ID   `json:"vehicle_id"`
		BidAmount   json.Number `json:"bid_amount"`
		Description string      `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		invalid(w, map[string][]string{"bid_amount": {"The bid amount must be a number."}})
		return
	}
	amount, err := decimal.NewFromString(in.BidAmount.String())
	if err != nil || !amount.IsPositive() {
		invalid(w, map[string][]string{"bid_amount": {"The bid amount must be greater than 0."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	loadID := domain.ID(r.PathValue("id"))
	if s.loadLocked(loadID) == nil {
		notFound(w)
		return
	}
	veh := s.vehicleLocked(in.VehicleID)
	if veh == nil || veh.owner != acct.user.Phone.String() {
		invalid(w, map[string][]string{"vehicle_id": {"The selected vehicle id is invalid."}})
		return
	}
	user := acct.user
	v := veh.vehicle
	s.bids[loadID] = append(s.bids[loadID], domain.Bid{
		ID:          s.id(),
		LoadID:      loadID,
		VehicleID:   in.VehicleID,
		Amount:      amount,
		Status:      "pending",
		Description: in.Description,
		User:        &user,
		Vehicle:     &v,
		CreatedAt:   s.stamp(),
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Bid placed"})
}

func (s *Server) handleFindLoads(w http.ResponseWriter, r *http.Request, acct *account) {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	perPage := atoiDefault(q.Get("per_page"), 10)
	radius := float64(atoiDefault(q.Get("radius"), 50))

	s.mu.Lock()
	defer s.mu.Unlock()
	veh := s.vehicleLocked(domain.ID(q.Get("vehicle_id")))
	if veh == nil || veh.owner != acct.user.Phone.String() {
		invalid(w, map[string][]string{"vehicle_id": {"The selected vehicle id is invalid."}})
		return
	}
	at := domain.Point{Lat: float64(veh.vehicle.CurrLat), Lng: float64(veh.vehicle.CurrLng)}
	var matches []domain.Load
	for _, rec := range s.loads {
		if rec.owner == acct.user.Phone.String() || rec.load.LoadStatus != domain.LoadPending {
			continue
		}
		d := geo.Distance(at, rec.load.Pickup())
		if d > radius {
			continue
		}
		l := rec.load
		l.Distance = domain.Float(d)
		matches = append(matches, l)
	}
	slices.SortStableFunc(matches, func(a, b domain.Load) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	start := (page - 1) * perPage
	end := min(start+perPage, len(matches))
	out := []domain.Load{}
	if start < len(matches) {
		out = matches[start:end]
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleFindLorry(w http.ResponseWriter, r *http.Request, _ *account) {
	q := r.URL.Query()
	pick := domain.Point{Lat: parseFloat(q.Get("pick_lat")), Lng: parseFloat(q.Get("pick_lng"))}
	typeID := domain.ID(q.Get("vehicle_type_id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Lorry{}
	for _, rec := range s.vehicles {
		v := rec.vehicle
		if !v.Available() || (!typeID.IsZero() && v.TypeID != typeID) {
			continue
		}
		if geo.Distance(pick, domain.Point{Lat: float64(v.CurrLat), Lng: float64(v.CurrLng)}) > 100 {
			continue
		}
		driver := ""
		if owner := s.accounts[rec.owner]; owner != nil {
			driver = owner.user.Name
		}
		out = append(out, domain.Lorry{
			ID:            v.ID,
			VehicleNumber: v.Number,
			DriverName:    driver,
			Capacity:      v.Weight,
			Address:       v.CurrLocation,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVehicles(w http.ResponseWriter, _ *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Vehicle{}
	for _, rec := range s.vehicles {
		if s.ownsLocked(rec, acct) {
			out = append(out, rec.vehicle)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// ownsLocked treats a transporter as owning its drivers' vehicles.
func (s *Server) ownsLocked(rec *vehicleRecord, acct *account) bool {
	phone := acct.user.Phone.String()
	if rec.owner == phone {
		return true
	}
	if acct.role == domain.RoleTransporter {
		if o := s.accounts[rec.owner]; o != nil && o.owner == phone {
			return true
		}
	}
	return false
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.vehicleLocked(domain.ID(r.PathValue("id")))
	if rec == nil || !s.ownsLocked(rec, acct) {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rec.vehicle})
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request, acct *account) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		invalid(w, map[string][]string{"document": {"The document field is required."}})
		return
	}
	form := r.MultipartForm
	get := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	fields := map[string][]string{}
	if get("vehicle_number") == "" {
		fields["vehicle_number"] = []string{"The vehicle number field is required."}
	}
	if len(form.File["document"]) == 0 {
		fields["document"] = []string{"The document field is required."}
	}
	var routes []domain.Route
	if raw := get("routes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &routes); err != nil {
			fields["routes"] = []string{"The routes must be a valid JSON string."}
		}
	}
	if len(fields) > 0 {
		invalid(w, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	typeID := domain.ID(get("vehicle_type_id"))
	v := domain.Vehicle{
		ID:           s.id(),
		Number:       get("vehicle_number"),
		TypeID:       typeID,
		Type:         s.vehicleTypeLocked(typeID),
		Status:       domain.VehicleStatus(get("status")),
		CurrLocation: get("curr_location"),
		CurrStateID:  domain.ID(get("curr_state_id")),
		Description:  get("description"),
		Weight:       domain.Text(get("weight")),
	}
	rec := &vehicleRecord{vehicle: v, owner: acct.user.Phone.String()}
	for _, rt := range routes {
		rec.routes = append(rec.routes, rt.StateID)
	}
	rec.vehicle.OperationalStates = s.statesLocked(rec.routes)
	s.vehicles = append(s.vehicles, rec)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Vehicle added", "data": rec.vehicle})
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request, acct *account) {
	var loc domain.LocationUpdate
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		invalid(w, map[string][]string{"curr_lat": {"The curr lat field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.vehicleLocked(domain.ID(r.PathValue("id")))
	if rec == nil || !s.ownsLocked(rec, acct) {
		notFound(w)
		return
	}
	rec.vehicle.CurrLocation = loc.CurrLocation
	rec.vehicle.CurrLat = domain.Float(loc.CurrLat)
	rec.vehicle.CurrLng = domain.Float(loc.CurrLng)
	writeJSON(w, http.StatusOK, map[string]any{"data": rec.vehicle})
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request, acct *account) {
	id := domain.ID(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.vehicles {
		if rec.vehicle.ID == id && s.ownsLocked(rec, acct) {
			s.vehicles = slices.Delete(s.vehicles, i, i+1)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
			return
		}
	}
	notFound(w)
}

func (s *Server) handleVehicleStates(w http.ResponseWriter, r *http.Request, acct *account) {
	var in struct {
		States []domain.ID `json:"states"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		invalid(w, map[string][]string{"states": {"The states must be an array."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.vehicleLocked(domain.ID(r.PathValue("id")))
	if rec == nil || !s.ownsLocked(rec, acct) {
		notFound(w)
		return
	}
	rec.routes = in.States
	rec.vehicle.OperationalStates = s.statesLocked(in.States)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Routes updated"})
}

func (s *Server) handleDrivers(w http.ResponseWriter, _ *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Driver{}
	for _, a := range s.accounts {
		if a.role == domain.RoleDriver && a.owner == acct.user.Phone.String() {
			out = append(out, domain.Driver{ID: a.user.ID, Name: a.user.Name, Phone: a.user.Phone, Email: a.user.Email, Status: "active"})
		}
	}
	slices.SortFunc(out, func(a, b domain.Driver) int { return strings.Compare(a.ID.String(), b.ID.String()) })
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleAddDriver(w http.ResponseWriter, r *http.Request, acct *account) {
	if acct.role != domain.RoleTransporter {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Only transporters can add drivers"})
		return
	}
	var in domain.NewDriver
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		invalid(w, map[string][]string{"name": {"The name field is required."}})
		return
	}
	fields := map[string][]string{}
	if in.Name == "" {
		fields["name"] = []string{"The name field is required."}
	}
	if in.Phone == "" {
		fields["phone"] = []string{"The phone field is required."}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[in.Phone]; taken && in.Phone != "" {
		fields["phone"] = []string{"The phone has already been taken."}
	}
	if len(fields) > 0 {
		invalid(w, fields)
		return
	}
	s.accounts[in.Phone] = &account{
		user:     domain.User{ID: s.id(), Name: in.Name, Phone: domain.Text(in.Phone), Email: in.Email, UserType: string(domain.RoleDriver)},
		password: in.Password,
		role:     domain.RoleDriver,
		owner:    acct.user.Phone.String(),
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Driver added"})
}

func (s *Server) handleDeleteDriver(w http.ResponseWriter, r *http.Request, acct *account) {
	id := domain.ID(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for phone, a := range s.accounts {
		if a.user.ID == id && a.owner == acct.user.Phone.String() {
			delete(s.accounts, phone)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Driver deleted"})
			return
		}
	}
	notFound(w)
}

func (s *Server) handleKYC(w http.ResponseWriter, r *http.Request, acct *account) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		invalid(w, map[string][]string{"aadhaar_number": {"The aadhaar number field is required."}})
		return
	}
	upload := KYCUpload{Fields: r.MultipartForm.Value, Files: map[string]string{}}
	for field, fhs := range r.MultipartForm.File {
		if len(fhs) > 0 {
			upload.Files[field] = fhs[0].Filename
		}
	}
	if upload.Fields.Get("aadhaar_number") == "" {
		invalid(w, map[string][]string{"aadhaar_number": {"The aadhaar number field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kyc[acct.user.Phone.String()] = upload
	acct.kyc = domain.KYCPending
	acct.user.Status = domain.KYCPending
	writeJSON(w, http.StatusOK, map[string]string{"message": "KYC submitted"})
}

func (s *Server) issueLocked(phone string) string {
	token := "tok-" + s.id().String()
	s.tokens[token] = phone
	return token
}

func (s *Server) loadLocked(id domain.ID) *loadRecord {
	for _, rec := range s.loads {
		if rec.load.ID == id {
			return rec
		}
	}
	return nil
}

func (s *Server) vehicleLocked(id domain.ID) *vehicleRecord {
	for _, rec := range s.vehicles {
		if rec.vehicle.ID == id {
			return rec
		}
	}
	return nil
}

func (s *Server) vehicleTypeLocked(id domain.ID) domain.VehicleType {
	for _, t := range s.vehicleTypes {
		if t.ID == id {
			return t
		}
	}
	return domain.VehicleType{ID: id}
}

func (s *Server) statesLocked(ids []domain.ID) []domain.State {
	var out []domain.State
	for _, id := range ids {
		for _, st := range s.states {
			if st.ID == id {
				out = append(out, st)
			}
		}
	}
	return out
}

// stamp hands out strictly increasing creation times. Callers hold s.mu.
func (s *Server) stamp() string {
	s.clock++
	return epoch.Add(time.Duration(s.clock) * time.Minute).Format("2006-01-02 15:04:05")
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// wireRole reports transporters the way the backend does.
func wireRole(r domain.Role) string {
	if r == domain.RoleTransporter {
		return "transport"
	}
	return string(r)
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
