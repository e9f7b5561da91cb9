package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codapos/pos-agent/internal/infrastructure/api"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/response"
	"github.com/codapos/pos-agent/pkg/apperror"
	"github.com/codapos/pos-agent/pkg/printer"
)

// RespondError translates transport and upstream errors into the API
// envelope. Printer sentinels map to their Indonesian messages; upstream
// errors keep the status the server answered with.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, printer.ErrNotConnected):
		response.Error(c, apperror.ErrPrinterNotConnected)
	case errors.Is(err, printer.ErrDeviceNotFound):
		response.Error(c, apperror.ErrPrinterNotFound)
	case errors.Is(err, printer.ErrWriteFailed):
		response.Error(c, apperror.ErrPrinterWrite)
	case errors.Is(err, printer.ErrConnectionFailed):
		response.Error(c, apperror.NewAppError(http.StatusBadGateway, "Gagal terhubung ke printer"))
	case errors.Is(err, printer.ErrCancelled):
		response.Error(c, apperror.NewAppError(http.StatusConflict, "Koneksi printer dibatalkan"))
	default:
		var upstream *api.Error
		if errors.As(err, &upstream) {
			response.ErrorWithCode(c, upstream.Status, upstream.Message)
			return
		}
		response.Error(c, err)
	}
}

// ParamUUID parses a UUID path parameter, answering 400 itself on failure.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "ID tidak valid")
		return uuid.Nil, false
	}
	return id, true
}
