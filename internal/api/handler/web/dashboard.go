// internal/api/handler/web/dashboard.go
package web

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/newthinker/fxsignals/internal/daterange"
	"github.com/newthinker/fxsignals/internal/session"
)

// ExportPath is where the dashboard links the workbook download.
const ExportPath = "/export"

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title      string
	Banner     string
	StartDate  string
	EndDate    string
	StartMin   string
	StartMax   string
	EndMin     string
	EndMax     string
	Error      string
	Loading    bool
	Columns    []core.Column
	Rows       []RowView
	HasResults bool
	ExportURL  string
}

// RowView is one rendered table row.
type RowView struct {
	Bearish bool
	Cells   []string
}

// Dashboard renders the dashboard page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, http.StatusOK, "dashboard.html", h.dashboardData(h.session.Snapshot()))
}

// Fetch reads start_date and end_date from the form, runs the query and
// redirects back to the dashboard.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	start, startErr := core.ParseDate(r.PostForm.Get("start_date"))
	end, endErr := core.ParseDate(r.PostForm.Get("end_date"))
	if err := errors.Join(startErr, endErr); err != nil {
		st := h.session.Snapshot()
		st.Err = err
		h.render(w, http.StatusBadRequest, "dashboard.html", h.dashboardData(st))
		return
	}

	if _, err := h.session.FetchRange(r.Context(), core.DateRange{Start: start, End: end}); err != nil {
		h.logger.Debug("dashboard fetch", zap.Error(err))
		if errors.Is(err, core.ErrFetchInFlight) {
			st := h.session.Snapshot()
			st.Err = err
			h.render(w, http.StatusConflict, "dashboard.html", h.dashboardData(st))
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) dashboardData(st session.State) DashboardData {
	bounds := h.session.Bounds()
	startPicker, endPicker := daterange.PickerBounds(st.Range, bounds)

	rows := make([]RowView, 0, len(st.Results))
	for _, rec := range st.Results {
		cells := make([]string, 0, len(core.Columns))
		for _, col := range core.Columns {
			cells = append(cells, rec.Display(col.Field))
		}
		rows = append(rows, RowView{Bearish: rec.IsBearish(), Cells: cells})
	}

	return DashboardData{
		Title:      "Forex Signals",
		Banner:     fmt.Sprintf("Date range allowed: %s - %s", bounds.MinStart.Long(), bounds.MaxEnd.Long()),
		StartDate:  st.Range.Start.String(),
		EndDate:    st.Range.End.String(),
		StartMin:   startPicker.Min.String(),
		StartMax:   startPicker.Max.String(),
		EndMin:     endPicker.Min.String(),
		EndMax:     endPicker.Max.String(),
		Error:      st.Message(),
		Loading:    st.Loading,
		Columns:    core.Columns,
		Rows:       rows,
		HasResults: len(rows) > 0,
		ExportURL:  ExportPath,
	}
}
