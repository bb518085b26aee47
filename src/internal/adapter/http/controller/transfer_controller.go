package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/upi-payment-processor/src/internal/commons"
	"github.com/api-sage/upi-payment-processor/src/internal/usecase/service_interfaces"
)

type TransferController struct {
	service service_interfaces.TransferService
}

func NewTransferController(service service_interfaces.TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	register := func(path string, handler http.HandlerFunc) {
		if authMiddleware != nil {
			mux.Handle(path, authMiddleware(handler))
			return
		}
		mux.Handle(path, handler)
	}

	register("/transfer-funds", c.transfer)
	register("/get-transfer", c.getTransfer)
	register("/list-transfers", c.listTransfers)
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransferResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.TransferFunds(r.Context(), req)
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	// A business-rule failure is still a recorded ledger entry: the
	// envelope carries the FAILED record and the status says why.
	status := http.StatusCreated
	if !response.Success {
		status = statusFromTransferFailure(response.Message)
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func (c *TransferController) getTransfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TransferResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		response := commons.ErrorResponse[models.TransferResponse]("validation failed", "id must be a positive integer")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.GetTransfer(r.Context(), id)
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransferController) listTransfers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.TransferResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	query := r.URL.Query()
	response, err := c.service.ListTransfers(r.Context(), query.Get("sender"), query.Get("status"))
	if err != nil {
		status := statusFromMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func statusFromTransferFailure(reason string) int {
	switch reason {
	case "sender account not found", "receiver account not found":
		return http.StatusNotFound
	case "insufficient balance":
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
