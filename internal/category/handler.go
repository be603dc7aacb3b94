package category

import (
	"net/http"

	"github.com/frahmantamala/income-expense-tracker/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories() CategoriesResponse
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.GetAllCategories())
}
