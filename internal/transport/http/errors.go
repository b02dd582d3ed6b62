package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeInvalidTime         = "invalid_time"
	codeNameRequired        = "name_required"
	codeInvalidWindow       = "invalid_window"
	codeInvalidQuantity     = "invalid_quantity"
	codeInvalidPrice        = "invalid_price"
	codeInvalidLimit        = "invalid_limit"
	codeHolderRequired      = "holder_required"
	codeSaleNotFound        = "flash_sale_not_found"
	codeItemNotFound        = "item_not_found"
	codeReservationNotFound = "reservation_not_found"
	codeSaleNotActive       = "flash_sale_not_active"
	codeSaleNotEditable     = "flash_sale_not_editable"
	codeSaleFinished        = "flash_sale_finished"
	codeReservationDone     = "reservation_resolved"
	codeInsufficientStock   = "insufficient_stock"
	codeLimitExceeded       = "limit_exceeded"
	codeDuplicateItem       = "duplicate_item"
	codeQuantityTooLow      = "quantity_too_low"
	codeRateLimited         = "rate_limited"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps domain sentinels onto HTTP status and machine
// readable codes; everything unrecognized becomes a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range serviceErrorMap {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

var serviceErrorMap = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrSaleNotFound, http.StatusNotFound, codeSaleNotFound},
	{domain.ErrItemNotFound, http.StatusNotFound, codeItemNotFound},
	{domain.ErrReservationNotFound, http.StatusNotFound, codeReservationNotFound},
	{domain.ErrSaleNotActive, http.StatusConflict, codeSaleNotActive},
	{domain.ErrSaleNotEditable, http.StatusConflict, codeSaleNotEditable},
	{domain.ErrSaleFinished, http.StatusConflict, codeSaleFinished},
	{domain.ErrReservationDone, http.StatusConflict, codeReservationDone},
	{domain.ErrInsufficientStock, http.StatusConflict, codeInsufficientStock},
	{domain.ErrLimitExceeded, http.StatusConflict, codeLimitExceeded},
	{domain.ErrDuplicateItem, http.StatusConflict, codeDuplicateItem},
	{domain.ErrQuantityTooLow, http.StatusConflict, codeQuantityTooLow},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, codeInvalidQuantity},
	{domain.ErrHolderRequired, http.StatusBadRequest, codeHolderRequired},
	{domain.ErrInvalidWindow, http.StatusBadRequest, codeInvalidWindow},
	{domain.ErrNameRequired, http.StatusBadRequest, codeNameRequired},
	{domain.ErrInvalidPrice, http.StatusBadRequest, codeInvalidPrice},
	{domain.ErrInvalidLimit, http.StatusBadRequest, codeInvalidLimit},
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
}
