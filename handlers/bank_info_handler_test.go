package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/izzico/izzico-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetBankInfoHandler(t *testing.T) {
	bankSvc := new(MockBankInfoService)
	h := NewBankInfoHandler(bankSvc)

	r := newHandlerRouter(testUserID)
	r.GET("/v1/me/bank-info", h.GetBankInfoHandler)

	bankSvc.On("GetBankInfo", mock.Anything, testUserID).Return(&types.BankInfo{
		UserID:     testUserID,
		IBANMasked: "BE68********7034",
		Verified:   true,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/me/bank-info", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var info types.BankInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "BE68********7034", info.IBANMasked)
	assert.True(t, info.Verified)
}

func TestUpdateBankInfoHandler(t *testing.T) {
	bankSvc := new(MockBankInfoService)
	h := NewBankInfoHandler(bankSvc)

	r := newHandlerRouter(testUserID)
	r.PUT("/v1/me/bank-info", h.UpdateBankInfoHandler)

	bankSvc.On("UpdateBankInfo", mock.Anything, testUserID,
		mock.AnythingOfType("types.UpdateBankInfoRequest")).
		Return(&types.BankInfo{UserID: testUserID, IBANMasked: "BE68********7034"}, nil)

	body, _ := json.Marshal(map[string]any{
		"iban":              "BE68 5390 0754 7034",
		"accountHolderName": "Alice",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/v1/me/bank-info", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	bankSvc.AssertExpectations(t)
}

func TestModificationAllowedHandler_Blocked(t *testing.T) {
	bankSvc := new(MockBankInfoService)
	h := NewBankInfoHandler(bankSvc)

	r := newHandlerRouter(testUserID)
	r.GET("/v1/me/bank-info/modification-allowed", h.ModificationAllowedHandler)

	bankSvc.On("ModificationAllowed", mock.Anything, testUserID).
		Return(false, 30*time.Minute, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/me/bank-info/modification-allowed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["allowed"])
	assert.Equal(t, float64(1800), response["retry_after"])
}

func TestVerifyBankInfoHandler(t *testing.T) {
	bankSvc := new(MockBankInfoService)
	h := NewBankInfoHandler(bankSvc)

	r := newHandlerRouter(testUserID)
	r.POST("/v1/me/bank-info/verify", h.VerifyBankInfoHandler)

	bankSvc.On("MarkVerified", mock.Anything, testUserID).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/me/bank-info/verify", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":true`)
}
