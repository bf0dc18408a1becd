package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/rpc"
)

// Calculator is the part of the bill service the REST facade exposes.
type Calculator interface {
	Calculate(ctx context.Context, req *connect.Request[rpc.CalculateRequest]) (*connect.Response[rpc.CalculateResponse], error)
	CalculateBill(ctx context.Context, req *connect.Request[rpc.CalculateBillRequest]) (*connect.Response[rpc.CalculateResponse], error)
}

// Handler serves the settlement endpoints over plain JSON.
type Handler struct {
	svc Calculator
	jwt *auth.JWTManager
}

func NewHandler(svc Calculator, jwtManager *auth.JWTManager) *Handler {
	return &Handler{svc: svc, jwt: jwtManager}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/calculate", h.calculate)
	r.With(h.authenticate).Post("/bills/{id}/calculate", h.calculateBill)
}

// authenticate attaches the bearer token's user to the request context. Missing
// or bad tokens leave the request anonymous; the service decides what needs a caller.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.jwt != nil {
			if token, err := middleware.BearerToken(r.Header.Get("Authorization")); err == nil {
				if claims, err := h.jwt.Validate(token); err == nil {
					r = r.WithContext(middleware.WithUserID(r.Context(), claims.UserID))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req rpc.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}

	resp, err := h.svc.Calculate(r.Context(), connect.NewRequest(&req))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp.Msg)
}

type calculateBillRequest struct {
	ApplyRecorded bool `json:"apply_recorded"`
}

func (h *Handler) calculateBill(w http.ResponseWriter, r *http.Request) {
	var body calculateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}

	resp, err := h.svc.CalculateBill(r.Context(), connect.NewRequest(&rpc.CalculateBillRequest{
		BillID:        chi.URLParam(r, "id"),
		ApplyRecorded: body.ApplyRecorded,
	}))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp.Msg)
}
