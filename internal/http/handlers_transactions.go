package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
)

type totalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q, "limit", maxListLimit, maxListLimit)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var list []core.Transaction
	switch q.Get("type") {
	case "":
		list = s.repo.GetAll()
	default:
		typ, err := core.ParseType(q.Get("type"))
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if typ == core.Income {
			list = s.repo.GetIncome()
		} else {
			list = s.repo.GetExpenses()
		}
	}
	if len(list) > limit {
		list = list[:limit]
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := ParseTransactionInput(w, r, s.engine.Now())
	if err != nil {
		writeRequestError(w, r, err)
		return
	}
	t, err := s.service.Add(r.Context(), in)
	if err != nil {
		writeInternalError(w, r, applog.OpCreate, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/transactions/%d", t.ID))
	writeJSON(w, r, http.StatusCreated, t)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := s.repo.GetByID(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

// handleUpdateTransaction answers 204 for unknown ids as well; updates of
// missing records are no-ops.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := ParsePatch(w, r, s.engine.Now())
	if err != nil {
		writeRequestError(w, r, err)
		return
	}
	if patch.IsEmpty() {
		noContent(w)
		return
	}
	if _, err := s.service.Update(r.Context(), id, patch); err != nil {
		writeInternalError(w, r, applog.OpUpdate, err)
		return
	}
	noContent(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.service.Remove(r.Context(), id); err != nil {
		writeInternalError(w, r, applog.OpDelete, err)
		return
	}
	noContent(w)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	income := s.repo.TotalFor(s.repo.GetIncome())
	expense := s.repo.TotalFor(s.repo.GetExpenses())
	writeJSON(w, r, http.StatusOK, totalsResponse{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	})
}
