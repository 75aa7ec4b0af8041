package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"splitcalc/internal/app"
	"splitcalc/internal/core"
	"splitcalc/internal/export"
	"splitcalc/internal/log"
	"splitcalc/internal/records"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	cmp := s.comparison(r.Context())
	data := struct {
		State      StateView
		Comparison core.Comparison
		Chart      []ChartGroup
	}{
		State:      newStateView(s.ctrl.State()),
		Comparison: cmp,
		Chart:      chartGroups(cmp),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err.Error())
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStateView(s.ctrl.State()))
}

// dispatch runs a and answers with the new state. Storage failures keep the
// new state but are flagged in the envelope.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, a app.Action) (app.State, bool) {
	st, err := s.ctrl.Dispatch(r.Context(), a)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Action failed",
			log.FieldOperation, app.Name(a), log.FieldError, err.Error())
		code := CodeInternal
		if errors.Is(err, records.ErrPersist) {
			code = CodeStorage
		}
		writeError(w, http.StatusInternalServerError, code, st.Notice, newStateView(st))
		return st, false
	}
	return st, true
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, a app.Action) {
	if st, ok := s.dispatch(w, r, a); ok {
		writeJSON(w, http.StatusOK, newStateView(st))
	}
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	s.apply(w, r, app.AddCategory{Name: sanitizeInput(req.Name)})
}

func (s *Server) handleUpdateAmount(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		badRequest(w, "Invalid category id")
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	s.apply(w, r, app.SetAmountText{ID: id, Text: string(req.Amount)})
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		badRequest(w, "Invalid category id")
		return
	}
	s.apply(w, r, app.RemoveCategory{ID: id})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, app.ClearValues{})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, app.ResetDefaults{})
}

func (s *Server) handleSetPeople(w http.ResponseWriter, r *http.Request) {
	var req peopleRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	s.apply(w, r, app.SetPeopleText{Text: string(req.People)})
}

func (s *Server) handleSetAdvanced(w http.ResponseWriter, r *http.Request) {
	var req advancedRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if req.Advanced == nil {
		s.apply(w, r, app.ToggleAdvanced{})
		return
	}
	s.apply(w, r, app.SetAdvanced{On: *req.Advanced})
}

func (s *Server) handleSetPercentage(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		badRequest(w, "Invalid person index")
		return
	}
	var req percentageRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	s.apply(w, r, app.SetPercentageText{Index: index, Text: string(req.Value)})
}

// handleCalculate answers 422 with the status message when the split is
// invalid, and 201 when a record was stored.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	st, ok := s.dispatch(w, r, app.Calculate{})
	if !ok {
		return
	}
	if st.Outcome == nil {
		writeError(w, http.StatusUnprocessableEntity, CodeInvalidSplit, st.Result, newStateView(st))
		return
	}
	writeJSON(w, http.StatusCreated, newStateView(st))
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStateView(s.ctrl.State()).Records)
}

func (s *Server) handleLoadRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}
	s.apply(w, r, app.LoadRecord{ID: id})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}
	s.apply(w, r, app.DeleteRecord{ID: id})
}

func (s *Server) handleSetSelected(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	s.apply(w, r, app.SetSelected{ID: id, Selected: req.Selected})
}

// recordID parses {id} and checks it names a stored record.
func (s *Server) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := int64Param(r, "id")
	if err != nil {
		badRequest(w, "Invalid record id")
		return 0, false
	}
	for _, rec := range s.ctrl.State().Records {
		if rec.ID == id {
			return id, true
		}
	}
	notFound(w, "Record not found")
	return 0, false
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.comparison(r.Context()))
}

func (s *Server) handleComparisonCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, s.comparison(r.Context())); err != nil {
		s.logger.ErrorContext(r.Context(), "CSV export failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, CodeInternal, "export failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename("", time.Now())+`"`)
	_, _ = buf.WriteTo(w)
}
