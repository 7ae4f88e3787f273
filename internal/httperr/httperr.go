package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromBusiness mapeia um BusinessError para a resposta HTTP correspondente.
// Falhas de autorização nunca revelam se o recurso existe.
func FromBusiness(c *gin.Context, err error) {
	code, ok := BusinessCode(err)
	if !ok {
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	switch code {
	case CodeValidation:
		BadRequest(c, code, "Dados inválidos.")
	case CodeUnauthorized:
		Forbidden(c, code, "Sem permissão para esta operação.")
	case CodeInvalidTransition:
		Conflict(c, code, "Transição de estado não permitida.")
	case CodeSlotConflict:
		Conflict(c, code, "Este horário acabou de ser reservado.")
	case CodeNotFound:
		NotFound(c, code, "Recurso não encontrado.")
	case CodeTokenExpired:
		Write(c, http.StatusGone, code, "Este link expirou.")
	default:
		BadRequest(c, code, "Operação inválida.")
	}
}
