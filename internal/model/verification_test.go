package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveVerificationStatus(t *testing.T) {
	cases := []struct {
		name     string
		rejected interface{}
		status   string
		want     string
	}{
		{"empty input", nil, "", StatusPending},
		{"status only", nil, StatusApproved, StatusApproved},
		{"status pending", nil, StatusPending, StatusPending},
		{"status rejected", nil, StatusRejected, StatusRejected},
		{"free-form status passes through", nil, "in_review", "in_review"},

		{"bool flag true", true, StatusApproved, StatusRejected},
		{"bool flag false", false, StatusApproved, StatusApproved},
		{"string flag true", "true", "", StatusRejected},
		{"string flag other", "yes", StatusApproved, StatusApproved},
		{"float flag one", float64(1), StatusApproved, StatusRejected},
		{"float flag zero", float64(0), StatusApproved, StatusApproved},
		{"int flag one", 1, "", StatusRejected},
		{"json number one", json.Number("1"), StatusApproved, StatusRejected},
		{"json number zero", json.Number("0"), StatusApproved, StatusApproved},

		{"malformed flag falls through", []interface{}{"x"}, "", StatusPending},
		{"malformed flag keeps status", map[string]interface{}{}, StatusApproved, StatusApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveVerificationStatus(VerificationInput{
				Rejected: tc.rejected,
				Status:   tc.status,
			})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveVerificationStatusFlagWinsOverStatus(t *testing.T) {
	// the rejection flag shadows any status, including approved
	got := DeriveVerificationStatus(VerificationInput{Rejected: true, Status: StatusApproved})
	assert.Equal(t, StatusRejected, got)
}

func TestEmployerProfileDerivedStatus(t *testing.T) {
	e := EmployerProfile{
		VerificationRejected: []byte(`"true"`),
		VerificationStatus:   StatusApproved,
	}
	assert.Equal(t, StatusRejected, e.DerivedStatus())

	e = EmployerProfile{VerificationStatus: StatusApproved}
	assert.Equal(t, StatusApproved, e.DerivedStatus())

	e = EmployerProfile{VerificationRejected: []byte(`not json`)}
	assert.Equal(t, StatusPending, e.DerivedStatus())

	e = EmployerProfile{}
	assert.Equal(t, StatusPending, e.DerivedStatus())
}

func TestUserEffectiveRole(t *testing.T) {
	u := User{Role: RoleJobseeker}
	assert.Equal(t, RoleJobseeker, u.EffectiveRole())

	u = User{Role: RoleMulti, ActiveRole: RoleEmployer}
	assert.Equal(t, RoleEmployer, u.EffectiveRole())

	u = User{Role: RoleMulti}
	assert.Equal(t, RoleMulti, u.EffectiveRole())
}
