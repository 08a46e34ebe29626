package professor

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/myschool/campus"
	"github.com/myschool/campus/http/cookie"
	"github.com/myschool/campus/http/req"
	"github.com/myschool/campus/http/resp"
	"github.com/myschool/campus/http/router"
	"github.com/myschool/campus/http/session"
	"github.com/myschool/campus/logger"
	"github.com/myschool/campus/validate"
)

const (
	// RowsCookie remembers how many rows a client last listed per page.
	RowsCookie = "rows"

	// LastViewedKey is the session key holding the profno a client last fetched.
	LastViewedKey = "profno"

	defaultRows = 10
	maxRows     = 100

	badNumberMsg = "%s 값은 숫자로 입력하세요."
	existsMsg    = "이미 사용중인 아이디입니다."
	notFoundMsg  = "존재하지 않는 교수 정보입니다."
	invalidMsg   = "교수 정보가 올바르지 않습니다."
	nameMsg      = "교수 이름은 한글로 입력하세요."
	profnoMsg    = "교수번호가 없습니다."
	rowsMsg      = "한 페이지에 1개에서 100개까지 조회할 수 있습니다."
	userIDMsg    = "아이디는 4자 이상 입력하세요."
)

// A Responder renders results and errors in the response envelope.
type Responder interface {
	Err(w http.ResponseWriter, r *http.Request, err error, opts ...resp.Fn)
	Json(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) error
}

// Handler serves the professor resource.
type Handler struct {
	store Store
	rp    Responder
	jar   *cookie.Jar
	l     logger.Logger
}

// NewHandler constructs a *Handler.
// jar may be nil, in which case the rows per page are not remembered.
func NewHandler(store Store, rp Responder, jar *cookie.Jar, l logger.Logger) *Handler {
	if l == nil {
		l = logger.New(nil)
	}

	return &Handler{store: store, rp: rp, jar: jar, l: l}
}

// Routes lists the routes h handles.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Path: "/professor", Method: http.MethodGet, Handler: h.List},
		{Path: "/professor/{profno}", Method: http.MethodGet, Handler: h.Get},
		{Path: "/professor", Method: http.MethodPost, Handler: h.Create},
		{Path: "/professor/{profno}", Method: http.MethodPut, Handler: h.Update},
		{Path: "/professor/{profno}", Method: http.MethodDelete, Handler: h.Delete},
	}
}

// List renders a page of professors matching the "keyword" parameter.
//
// "page" defaults to 1. "rows" defaults to what the client last asked for, otherwise 10.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, err := req.ParamsFromContext(r.Context())
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	keyword := p.Get("keyword", "")
	pageRaw := p.Get("page", "1")
	rowsRaw := p.Get("rows", h.rememberedRows(r))

	err = validate.Run(
		func() error { return validate.Num(pageRaw, fmt.Sprintf(badNumberMsg, "page")) },
		func() error { return validate.Num(rowsRaw, fmt.Sprintf(badNumberMsg, "rows")) },
	)
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	page, _ := strconv.ParseInt(pageRaw, 10, 64)
	rows, _ := strconv.ParseInt(rowsRaw, 10, 64)
	if rows < 1 || rows > maxRows {
		h.rp.Err(w, r, campus.NewBadRequest(rowsMsg))
		return
	}

	pd, err := h.store.List(r.Context(), Query{Keyword: keyword, Page: max(1, page), Rows: rows})
	if err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	h.rememberRows(w, rowsRaw)

	h.json(w, r, resp.Data(map[string]any{
		"pagenation": pd.Pagenation(0),
		"item":       pd.Items,
	}))
}

// Get renders the professor named by the "profno" path parameter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.profno(r)
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	prof, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	h.rememberViewed(w, r, id)
	h.json(w, r, resp.Field("item", prof))
}

// Create inserts a professor from the body and renders it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.form(r, http.MethodPost)
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	prof := form.Professor(0)
	if err := h.store.Create(r.Context(), &prof); err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	created, err := h.store.Get(r.Context(), prof.ID)
	if err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	h.json(w, r, resp.Field("item", created))
}

// Update replaces the professor named by the "profno" path parameter with the body and renders it.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.profno(r)
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	form, err := h.form(r, http.MethodPut)
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	if err := h.store.Update(r.Context(), form.Professor(id)); err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	updated, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	h.json(w, r, resp.Field("item", updated))
}

// Delete removes the professor named by the "profno" path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.profno(r)
	if err != nil {
		h.rp.Err(w, r, err)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.rp.Err(w, r, translate(err))
		return
	}

	h.json(w, r)
}

func (h *Handler) json(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) {
	if err := h.rp.Json(w, r, opts...); err != nil {
		h.rp.Err(w, r, err)
	}
}

// profno reads the professor number from the path.
func (h *Handler) profno(r *http.Request) (int64, error) {
	p, err := req.ParamsFromContext(r.Context())
	if err != nil {
		return 0, err
	}

	raw := p.Get("profno", "")
	err = validate.Run(
		func() error { return validate.Value(raw, profnoMsg) },
		func() error { return validate.Num(raw, fmt.Sprintf(badNumberMsg, "profno")) },
	)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, campus.NewBadRequest(fmt.Sprintf(badNumberMsg, "profno"))
	}

	return id, nil
}

// form decodes and validates the Form sent with verb.
func (h *Handler) form(r *http.Request, verb string) (Form, error) {
	p, err := req.ParamsFromContext(r.Context())
	if err != nil {
		return Form{}, err
	}

	var f Form
	if err := p.Decode(verb, &f); err != nil {
		return Form{}, err
	}

	err = validate.Run(
		func() error { return validate.Kor(f.Name, nameMsg) },
		func() error { return validate.MinLength(f.UserID, 4, userIDMsg) },
	)
	if err != nil {
		return Form{}, err
	}

	return f, nil
}

func (h *Handler) rememberedRows(r *http.Request) string {
	def := strconv.Itoa(defaultRows)
	if h.jar == nil {
		return def
	}

	var rows string
	if err := h.jar.Get(r, RowsCookie, &rows); err != nil {
		if !errors.Is(err, cookie.ErrNoCookie) {
			h.l.Debug("ignoring unreadable rows cookie", &logger.LogContext{Error: err, Request: r})
		}

		return def
	}

	return rows
}

func (h *Handler) rememberRows(w http.ResponseWriter, rows string) {
	if h.jar == nil {
		return
	}

	if err := h.jar.Set(w, RowsCookie, rows); err != nil {
		h.l.Warn("failed remembering rows", &logger.LogContext{Error: err})
	}
}

func (h *Handler) rememberViewed(w http.ResponseWriter, r *http.Request, id int64) {
	s, err := session.FromContext(r.Context())
	if err != nil {
		return
	}

	if err := s.Set(w, r, LastViewedKey, strconv.FormatInt(id, 10)); err != nil {
		h.l.Warn("failed saving session", &logger.LogContext{Error: err, Request: r})
	}
}

// translate turns Store errors into client errors where the client is at fault.
func translate(err error) error {
	switch {
	case errors.Is(err, campus.ErrNotExist):
		return campus.NewPageNotFound(notFoundMsg)
	case errors.Is(err, campus.ErrExists):
		return campus.NewBadRequest(existsMsg)
	case errors.Is(err, campus.ErrNotValid):
		return campus.NewBadRequest(invalidMsg)
	default:
		return err
	}
}
