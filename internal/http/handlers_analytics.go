package http

import (
	"net/http"

	"spendwise/internal/core"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	typ, err := queryType(r.URL.Query(), core.Expense)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.engine.ByCategory(typ))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	typ, err := queryType(r.URL.Query(), core.Expense)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.engine.Breakdown(typ))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := queryType(q, core.Expense)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	days, err := queryInt(q, "days", defaultDailyDays, maxDailyDays)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.engine.DailyTotals(days, typ))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.engine.CalendarData())
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	year, month, err := queryMonth(r.URL.Query(), s.engine.Now())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.engine.Heatmap(year, month))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r.URL.Query(), "months", defaultMonths, maxMonths)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.engine.MonthlyTotals(months))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	recent, err := queryInt(r.URL.Query(), "recent", defaultRecent, maxListLimit)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.engine.Dashboard(recent))
}
