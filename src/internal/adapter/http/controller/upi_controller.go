package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
	"github.com/api-sage/upi-payment-processor/src/internal/usecase/service_interfaces"
)

type UPIController struct {
	service service_interfaces.UPIPaymentService
}

func NewUPIController(service service_interfaces.UPIPaymentService) *UPIController {
	return &UPIController{service: service}
}

func (c *UPIController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	register := func(path string, handler http.HandlerFunc) {
		if authMiddleware != nil {
			mux.Handle(path, authMiddleware(handler))
			return
		}
		mux.Handle(path, handler)
	}

	register("/upi/initiate-payment", c.initiatePayment)
	register("/upi/verify-payment", c.verifyPayment)
	register("/upi/make-payment", c.makePayment)
	register("/upi/get-transaction", c.getTransaction)
	register("/upi/list-transactions", c.listTransactions)
}

func (c *UPIController) initiatePayment(w http.ResponseWriter, r *http.Request) {
	c.handlePayment(w, r, c.service.InitiatePayment, http.StatusCreated)
}

func (c *UPIController) makePayment(w http.ResponseWriter, r *http.Request) {
	c.handlePayment(w, r, c.service.MakePayment, http.StatusOK)
}

func (c *UPIController) handlePayment(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, req models.InitiateUPIPaymentRequest) (commons.Response[models.UPITransactionResponse], error),
	successStatus int,
) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.UPITransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.InitiateUPIPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UPITransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := call(r.Context(), req)
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, successStatus, response)
	logResponse(r, successStatus, response, start)
}

func (c *UPIController) verifyPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.UPITransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.VerifyUPIPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UPITransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.VerifyPayment(r.Context(), req)
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UPIController) getTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.UPITransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		response := commons.ErrorResponse[models.UPITransactionResponse]("validation failed", "id must be a positive integer")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.GetTransaction(r.Context(), id)
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UPIController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.UPITransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	query := r.URL.Query()
	response, err := c.service.ListTransactions(r.Context(), query.Get("sender"), query.Get("status"))
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
