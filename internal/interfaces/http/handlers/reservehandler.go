package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/application/reserve/usecases"
	"github.com/videocc/videocc/internal/shared/utils"
)

type ReserveHandler struct {
	getBalanceUC usecases.GetBalanceExecutor
}

func NewReserveHandler(getBalanceUC usecases.GetBalanceExecutor) *ReserveHandler {
	return &ReserveHandler{getBalanceUC: getBalanceUC}
}

// GetBalance handles GET /api/vcc-tokens-balance
func (h *ReserveHandler) GetBalance(c *gin.Context) {
	result, err := h.getBalanceUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
