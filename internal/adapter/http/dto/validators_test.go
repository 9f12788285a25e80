package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := SubmitWithdrawalRequest{
		BankName:    "  Vietcombank  ",
		AccountName: "\tLAN PHAM\n",
	}
	SanitizeStruct(&req)
	assert.Equal(t, "Vietcombank", req.BankName)
	assert.Equal(t, "LAN PHAM", req.AccountName)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := SubmitWithdrawalRequest{
		BankName: `<script>alert("x")</script>`,
	}
	SanitizeStruct(&req)
	assert.NotContains(t, req.BankName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	notes := "  needs manual check  "
	req := ReviewWithdrawalRequest{
		Status:     "rejected",
		AdminNotes: &notes,
	}
	SanitizeStruct(&req)
	assert.Equal(t, "needs manual check", *req.AdminNotes)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := ReviewWithdrawalRequest{Status: "approved"}
	SanitizeStruct(&req)
	assert.Nil(t, req.AdminNotes)
}

func TestValidateSafeID(t *testing.T) {
	assert.True(t, safeStringRe.MatchString("evt_2026-08.001"))
	assert.False(t, safeStringRe.MatchString("evt 001"))
	assert.False(t, safeStringRe.MatchString("evt;drop"))
}
