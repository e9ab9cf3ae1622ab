package types_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/domain/types"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Role
		wantErr bool
	}{
		{"shipper", types.RoleShipper, false},
		{" Driver ", types.RoleDriver, false},
		{"transporter", types.RoleTransporter, false},
		{"transport", types.RoleTransporter, false},
		{"admin", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHomeFor(t *testing.T) {
	d, err := types.HomeFor(types.RoleDriver)
	require.NoError(t, err)
	assert.Equal(t, types.DestDriverHome, d)

	_, err = types.HomeFor("nobody")
	assert.ErrorIs(t, err, types.ErrUnknownRole)
}

func TestID_DecodesLooseShapes(t *testing.T) {
	var v struct {
		A types.ID `json:"a"`
		B types.ID `json:"b"`
		C types.ID `json:"c"`
		D types.ID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"x9","c":null,"d":{"id":4,"title":"Open body"}}`), &v))
	assert.Equal(t, types.ID("12"), v.A)
	assert.Equal(t, types.ID("x9"), v.B)
	assert.True(t, v.C.IsZero())
	assert.Equal(t, types.ID("4"), v.D)
}

func TestID_Marshal(t *testing.T) {
	b, err := json.Marshal([]types.ID{"7", "abc", ""})
	require.NoError(t, err)
	assert.JSONEq(t, `[7,"abc",null]`, string(b))
}

func TestFloat_Decodes(t *testing.T) {
	var v struct {
		Lat types.Float `json:"lat"`
		Lng types.Float `json:"lng"`
		Z   types.Float `json:"z"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"lat":"22.71","lng":75.85,"z":""}`), &v))
	assert.InDelta(t, 22.71, float64(v.Lat), 1e-9)
	assert.InDelta(t, 75.85, float64(v.Lng), 1e-9)
	assert.Zero(t, v.Z)
}

func TestLoad_DecodesBlankAmounts(t *testing.T) {
	var loads []types.Load
	raw := `[{"id":1,"pick_lat":"","amount":"","weight":"12","total_amt":null,"material_name":"Coal"},` +
		`{"id":2,"amount":20000.5,"weight":1200,"total_amt":"40001"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &loads))
	require.Len(t, loads, 2)

	assert.Equal(t, types.ID("1"), loads[0].ID)
	assert.Equal(t, "Coal", loads[0].MaterialName)
	assert.True(t, loads[0].Amount.IsZero())
	assert.True(t, loads[0].TotalAmount.IsZero())
	assert.True(t, loads[0].Weight.Equal(decimal.NewFromInt(12)))

	assert.True(t, loads[1].Amount.Equal(decimal.RequireFromString("20000.5")))
	assert.True(t, loads[1].TotalAmount.Equal(decimal.NewFromInt(40001)))

	var bad types.Load
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"lots"}`), &bad))
}

func TestBid_DecodesBlankAmount(t *testing.T) {
	var bids []types.Bid
	raw := `[{"id":1,"bid_amount":"","status":"pending"},{"id":2,"bid_amount":1500,"status":"accepted"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &bids))
	require.Len(t, bids, 2)
	assert.True(t, bids[0].Amount.IsZero())
	assert.Equal(t, "pending", bids[0].Status)
	assert.True(t, bids[1].Amount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, bids[1].IsAccepted())
}

func TestNewBid_MarshalsNumericAmount(t *testing.T) {
	b, err := json.Marshal(types.NewBid{LoadID: "9", VehicleID: "4", Amount: decimal.RequireFromString("1500.50"), Description: "ready"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"load_id":9,"vehicle_id":4,"bid_amount":1500.5,"description":"ready"}`, string(b))
}

func TestVehicleType_Fits(t *testing.T) {
	open := types.VehicleType{ID: "1", Title: "Open", MinWeight: 1000, MaxWeight: 5000}
	assert.True(t, open.Fits(1000))
	assert.True(t, open.Fits(5000))
	assert.False(t, open.Fits(999))
	assert.False(t, open.Fits(5001))

	unbounded := types.VehicleType{ID: "2", Title: "Any"}
	assert.True(t, unbounded.Fits(1e6))
}

func TestVehicleType_DecodesTitleOrObject(t *testing.T) {
	var vs []types.Vehicle
	raw := `[{"id":1,"vehicle_type":"Trailer"},{"id":2,"vehicle_type":{"id":3,"title":"Tipper"}},{"id":3,"type":"Mini"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &vs))
	assert.Equal(t, "Trailer", vs[0].TypeLabel())
	assert.Equal(t, "Tipper", vs[1].TypeLabel())
	assert.Equal(t, "Mini", vs[2].TypeLabel())
}

func TestSummariseAccepted(t *testing.T) {
	bids := []types.Bid{
		{ID: "1", Status: "pending", Amount: decimal.NewFromInt(900)},
		{ID: "2", Status: "Accepted", Amount: decimal.NewFromInt(1000), Vehicle: &types.Vehicle{Number: "MP09AB1234"}},
	}
	acc := types.SummariseAccepted(bids)
	require.NotNil(t, acc)
	assert.Equal(t, types.ID("2"), acc.BidID)
	assert.Equal(t, "Driver", acc.DriverName)
	assert.Equal(t, "MP09AB1234", acc.VehicleNumber)
	assert.True(t, acc.Amount.Equal(decimal.NewFromInt(1000)))

	assert.Nil(t, types.SummariseAccepted(bids[:1]))
}

func TestKYCStatus(t *testing.T) {
	assert.Equal(t, "Verified", types.KYCVerified.Label())
	assert.Equal(t, "Pending", types.KYCPending.Label())
	assert.Equal(t, "Unverified", types.KYCRejected.Label())
	assert.Equal(t, "Unverified", types.KYCNone.Label())

	assert.True(t, types.KYCNone.NeedsSubmission())
	assert.True(t, types.KYCRejected.NeedsSubmission())
	assert.False(t, types.KYCPending.NeedsSubmission())

	p := types.Profile{User: types.User{Status: types.KYCVerified}}
	assert.Equal(t, types.KYCVerified, p.KYC())
	p.KYCStatus = types.KYCPending
	assert.Equal(t, types.KYCPending, p.KYC())
}

func TestAppSettings_OTPEnabled(t *testing.T) {
	var s types.AppSettings
	require.NoError(t, json.Unmarshal([]byte(`{"otp_auth":1,"show_dark":"0"}`), &s))
	assert.True(t, s.OTPEnabled())
	assert.False(t, s.DarkMode())
}
