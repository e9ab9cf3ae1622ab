package apitest

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"vtruck/internal/domain"
)

// Fixture points used across tests.
var (
	Indore = domain.Point{Lat: 22.7196, Lng: 75.8577}
	Bhopal = domain.Point{Lat: 23.2599, Lng: 77.4126}
	Mumbai = domain.Point{Lat: 19.0760, Lng: 72.8777}
)

// AddUser registers an account and returns a bearer token for it.
func (s *Server) AddUser(phone, password string, role domain.Role, kyc domain.KYCStatus) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[phone] = &account{
		user: domain.User{
			ID: s.id(), Name: s.faker.Name(), Phone: domain.Text(phone),
			Email: s.faker.Email(), Status: kyc, UserType: string(role),
		},
		password: password,
		role:     role,
		kyc:      kyc,
	}
	return s.issueLocked(phone)
}

// SetKYC changes an account's verification status.
func (s *Server) SetKYC(phone string, kyc domain.KYCStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accounts[phone]; a != nil {
		a.kyc = kyc
		a.user.Status = kyc
	}
}

// SetSettings replaces the app settings payload.
func (s *Server) SetSettings(settings domain.AppSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// AddVehicle stores a vehicle owned by phone, filling blanks with fake data.
func (s *Server) AddVehicle(phone string, v domain.Vehicle) domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = s.id()
	}
	if v.Number == "" {
		v.Number = fmt.Sprintf("MP%02dAB%04d", s.faker.Number(1, 99), s.faker.Number(1000, 9999))
	}
	if v.Status == "" {
		v.Status = domain.VehicleAvailable
	}
	if v.TypeID.IsZero() {
		v.TypeID = s.vehicleTypes[0].ID
	}
	if v.Type.ID.IsZero() {
		v.Type = s.vehicleTypeLocked(v.TypeID)
	}
	s.vehicles = append(s.vehicles, &vehicleRecord{vehicle: v, owner: phone})
	return v
}

// Vehicle returns the stored vehicle with id.
func (s *Server) Vehicle(id domain.ID) (domain.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.vehicleLocked(id); rec != nil {
		return rec.vehicle, true
	}
	return domain.Vehicle{}, false
}

// RemoveVehicle deletes a vehicle behind the client's back.
func (s *Server) RemoveVehicle(id domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = slices.DeleteFunc(s.vehicles, func(rec *vehicleRecord) bool { return rec.vehicle.ID == id })
}

// VehiclesOf lists the vehicles owned by phone.
func (s *Server) VehiclesOf(phone string) []domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Vehicle
	for _, rec := range s.vehicles {
		if rec.owner == phone {
			out = append(out, rec.vehicle)
		}
	}
	return out
}

// Routes returns the operating states last stored for a vehicle.
func (s *Server) Routes(id domain.ID) []domain.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.vehicleLocked(id); rec != nil {
		return slices.Clone(rec.routes)
	}
	return nil
}

// AddLoad stores a load posted by phone, filling blanks with fake data.
func (s *Server) AddLoad(phone string, l domain.Load) domain.Load {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = s.id()
	}
	if l.MaterialName == "" {
		l.MaterialName = s.faker.ProductName()
	}
	if l.PickupLocation == "" {
		l.PickupLocation = s.faker.City() + ", Madhya Pradesh, India"
	}
	if l.DropoffLocation == "" {
		l.DropoffLocation = s.faker.City() + ", Maharashtra, India"
	}
	if l.LoadStatus == "" {
		l.LoadStatus = domain.LoadPending
	}
	if l.LoadType == "" {
		l.LoadType = domain.LoadTypePost
	}
	if l.Weight.IsZero() {
		l.Weight = decimal.NewFromInt(int64(s.faker.Number(500, 9000)))
	}
	if l.Amount.IsZero() {
		l.Amount = decimal.NewFromInt(int64(s.faker.Number(5, 50)) * 1000)
	}
	if l.AmountType == "" {
		l.AmountType = domain.PriceFixed
	}
	if l.TotalAmount.IsZero() {
		l.TotalAmount = l.Amount
	}
	if l.CreatedAt == "" {
		l.CreatedAt = s.stamp()
	}
	s.loads = append(s.loads, &loadRecord{load: l, owner: phone})
	return l
}

// SeedLoads posts n pending loads from a fake shipper with pickups scattered
// within a few kilometres of around.
func (s *Server) SeedLoads(n int, around domain.Point) []domain.Load {
	s.mu.Lock()
	shipper := fmt.Sprintf("9%09d", s.faker.Number(0, 999999999))
	s.mu.Unlock()
	s.AddUser(shipper, "secret", domain.RoleShipper, domain.KYCVerified)

	out := make([]domain.Load, 0, n)
	for range n {
		s.mu.Lock()
		lat := around.Lat + s.faker.Float64Range(-0.05, 0.05)
		lng := around.Lng + s.faker.Float64Range(-0.05, 0.05)
		s.mu.Unlock()
		out = append(out, s.AddLoad(shipper, domain.Load{
			PickLat: domain.Float(lat), PickLng: domain.Float(lng),
			DropLat: domain.Float(Mumbai.Lat), DropLng: domain.Float(Mumbai.Lng),
		}))
	}
	return out
}

// Load returns the stored load with id.
func (s *Server) Load(id domain.ID) (domain.Load, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.loadLocked(id); rec != nil {
		return rec.load, true
	}
	return domain.Load{}, false
}

// LoadsOf lists the loads posted by phone.
func (s *Server) LoadsOf(phone string) []domain.Load {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Load
	for _, rec := range s.loads {
		if rec.owner == phone {
			out = append(out, rec.load)
		}
	}
	return out
}

// AddBid stores a bid on a load from the account behind phone.
func (s *Server) AddBid(phone string, loadID domain.ID, amount int64, status string) domain.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := domain.Bid{
		ID:        s.id(),
		LoadID:    loadID,
		Amount:    decimal.NewFromInt(amount),
		Status:    status,
		CreatedAt: s.stamp(),
	}
	if a := s.accounts[phone]; a != nil {
		u := a.user
		b.User = &u
	}
	for _, rec := range s.vehicles {
		if rec.owner == phone {
			v := rec.vehicle
			b.VehicleID = v.ID
			b.Vehicle = &v
			break
		}
	}
	s.bids[loadID] = append(s.bids[loadID], b)
	return b
}

// Bids returns the bids stored for a load.
func (s *Server) Bids(loadID domain.ID) []domain.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bids[loadID])
}

// DriversOf lists the driver accounts a transporter created.
func (s *Server) DriversOf(phone string) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, a := range s.accounts {
		if a.owner == phone {
			out = append(out, a.user)
		}
	}
	return out
}

// KYC returns the last KYC upload for phone.
func (s *Server) KYC(phone string) (KYCUpload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.kyc[phone]
	return u, ok
}

// Fail makes the next len(statuses) calls to method+path answer with the
// given statuses before normal handling resumes.
func (s *Server) Fail(method, path string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.faults[key] = append(s.faults[key], statuses...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Calls counts requests to method+path.
func (s *Server) Calls(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to method+path.
func (s *Server) Last(method, path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}
