package routes

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/recruitkit/recruitkit/app"
	"github.com/recruitkit/recruitkit/export"
	"github.com/recruitkit/recruitkit/httpx"
	"github.com/recruitkit/recruitkit/log"
	"github.com/recruitkit/recruitkit/model"
)

func CreateOpening(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opening := model.Opening{}
		err := render.DecodeJSON(r.Body, &opening)
		if err != nil {
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "invalid request body")
			return
		}
		if opening.Title == "" {
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "missing title")
			return
		}

		opening.ID = fmt.Sprintf("op_%d", uniqueMillis())
		opening.CreatedAt = time.Now().UTC()
		if opening.PreferredSources == nil {
			opening.PreferredSources = []string{}
		}

		if err := app.Openings.Create(r.Context(), &opening); err != nil {
			httpx.ServerError(w, r, "admin.create_opening", err)
			return
		}

		// an opening starts with the protected core questions only
		if opening.Schema == nil {
			opening.Schema = model.CoreQuestions()
		} else {
			opening.Schema = model.EnsureCoreFields(opening.Schema)
		}
		if err := app.Openings.PersistInlineSchema(r.Context(), opening.ID, opening.Schema); err != nil {
			httpx.ServerError(w, r, "admin.create_opening.schema", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, opening)
	}
}

func ListOpenings(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openings, err := app.Openings.List(r.Context())
		if err != nil {
			httpx.ServerError(w, r, "admin.list_openings", err)
			return
		}

		render.JSON(w, r, map[string]any{"openings": openings})
	}
}

func GetOpeningById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		opening, err := app.Openings.Get(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.get_opening", err)
			return
		}
		if opening == nil {
			httpx.LogNotFound(w, "admin.get_opening", openingID)
			return
		}

		render.JSON(w, r, opening)
	}
}

func UpdateOpening(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opening := model.Opening{}
		err := render.DecodeJSON(r.Body, &opening)
		if err != nil {
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "invalid request body")
			return
		}
		opening.ID = chi.URLParam(r, "id")
		if opening.PreferredSources == nil {
			opening.PreferredSources = []string{}
		}

		err = app.Openings.Update(r.Context(), &opening)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "admin.update_opening", opening.ID)
			return
		}
		if err != nil {
			httpx.ServerError(w, r, "admin.update_opening", err)
			return
		}

		render.JSON(w, r, opening)
	}
}

func DeleteOpening(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		err := app.Openings.Delete(r.Context(), openingID)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "admin.delete_opening", openingID)
			return
		}
		if err != nil {
			httpx.ServerError(w, r, "admin.delete_opening", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		form, err := app.Openings.Form(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.get_form", err)
			return
		}
		if form == nil {
			httpx.LogNotFound(w, "admin.get_form", openingID)
			return
		}

		render.JSON(w, r, form)
	}
}

// SaveForm replaces the opening's schema. The protected core questions are
// reinserted first, in fixed order, with required forced on.
func SaveForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		body := struct {
			Questions []model.Question `json:"questions"`
		}{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "invalid request body")
			return
		}

		opening, err := app.Openings.Get(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.save_form", err)
			return
		}
		if opening == nil {
			httpx.LogNotFound(w, "admin.save_form", openingID)
			return
		}

		questions := model.EnsureCoreFields(body.Questions)
		if err := app.Openings.PersistInlineSchema(r.Context(), openingID, questions); err != nil {
			httpx.ServerError(w, r, "admin.save_form", err)
			return
		}

		form, err := app.Openings.Form(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.save_form.reload", err)
			return
		}
		render.JSON(w, r, form)
	}
}

// PublishOpening marks the form published and computes one share link per
// preferred source plus the generic link.
func PublishOpening(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		opening, err := app.Openings.Get(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.publish", err)
			return
		}
		if opening == nil {
			httpx.LogNotFound(w, "admin.publish", openingID)
			return
		}

		base := requestBaseURL(r)
		genericLink := fmt.Sprintf("%s/apply?opening=%s", base, url.QueryEscape(openingID))
		shareLinks := map[string]string{}
		for _, source := range opening.PreferredSources {
			shareLinks[source] = fmt.Sprintf("%s&src=%s", genericLink, url.QueryEscape(source))
		}

		formID := fmt.Sprintf("form_%d", uniqueMillis())
		err = app.Openings.Publish(r.Context(), openingID, formID, genericLink, shareLinks, time.Now().UTC())
		if err != nil {
			httpx.ServerError(w, r, "admin.publish", err)
			return
		}

		form, err := app.Openings.Form(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.publish.reload", err)
			return
		}
		render.JSON(w, r, form)
	}
}

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")
		status := r.URL.Query().Get("status")

		responses, err := app.Responses.List(r.Context(), openingID, status)
		if err != nil {
			httpx.ServerError(w, r, "admin.list_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{"responses": responses})
	}
}

func UpdateResponseStatus(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responseID := chi.URLParam(r, "id")

		body := struct {
			Status string `json:"status"`
		}{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil || body.Status == "" {
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "missing status")
			return
		}

		err = app.Responses.UpdateStatus(r.Context(), responseID, body.Status)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "admin.update_status", responseID)
			return
		}
		if err != nil {
			httpx.ServerError(w, r, "admin.update_status", err)
			return
		}

		render.JSON(w, r, map[string]any{"ok": true})
	}
}

// ExportResponses streams the opening's responses as an XLSX workbook with
// the same schema-aligned columns as the spreadsheet tab.
func ExportResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		opening, err := app.Openings.Get(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "admin.export", err)
			return
		}
		if opening == nil {
			httpx.LogNotFound(w, "admin.export", openingID)
			return
		}

		responses, err := app.Responses.List(r.Context(), openingID, "")
		if err != nil {
			httpx.ServerError(w, r, "admin.export", err)
			return
		}

		workbook, err := export.ResponsesWorkbook(opening.Schema, responses)
		if err != nil {
			httpx.ServerError(w, r, "admin.export.workbook", err)
			return
		}
		defer workbook.Close()

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_responses.xlsx"`, openingID))
		if err := workbook.Write(w); err != nil {
			log.Errorf("admin.export.write: %s", err)
		}
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
