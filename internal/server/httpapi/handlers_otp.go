package httpapi

import (
	"net/http"
)

type otpRequestRequest struct {
	Email string `json:"email"`
}

func (h *Handlers) otpRequest(w http.ResponseWriter, r *http.Request) {
	var req otpRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.otps.Request(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OTP sent"})
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handlers) otpVerify(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.otps.Verify(r.Context(), req.Email, req.OTP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "email verified"})
}
