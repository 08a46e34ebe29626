package professor_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/myschool/campus"
	"github.com/myschool/campus/http/cookie"
	"github.com/myschool/campus/http/middleware"
	"github.com/myschool/campus/http/resp"
	"github.com/myschool/campus/http/router"
	"github.com/myschool/campus/http/session"
	"github.com/myschool/campus/logger"
	"github.com/myschool/campus/postgres"
	"github.com/myschool/campus/professor"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	next   int64
	rows   map[int64]professor.Professor
	listed professor.Query
}

func newFakeStore(profs ...professor.Professor) *fakeStore {
	s := &fakeStore{next: 9900, rows: make(map[int64]professor.Professor)}
	for _, p := range profs {
		s.rows[p.ID] = p
		s.next = max(s.next, p.ID)
	}

	return s
}

func (s *fakeStore) List(_ context.Context, q professor.Query) (postgres.PagedData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listed = q

	var all []professor.Professor
	for _, p := range s.rows {
		if q.Keyword == "" || strings.Contains(p.Name, q.Keyword) || strings.Contains(p.UserID, q.Keyword) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	start := min(int64(len(all)), (q.Page-1)*q.Rows)
	end := min(int64(len(all)), start+q.Rows)
	items := all[start:end]

	return postgres.PagedData{
		Items:      &items,
		Page:       q.Page,
		PerPage:    q.Rows,
		TotalItems: int64(len(all)),
		TotalPages: (int64(len(all)) + q.Rows - 1) / q.Rows,
	}, nil
}

func (s *fakeStore) Get(_ context.Context, id int64) (professor.Professor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[id]
	if !ok {
		return professor.Professor{}, fmt.Errorf("%w: professor %d", campus.ErrNotExist, id)
	}

	return p, nil
}

func (s *fakeStore) Create(_ context.Context, p *professor.Professor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rows {
		if existing.UserID == p.UserID {
			return fmt.Errorf("%w: userid", campus.ErrExists)
		}
	}

	s.next++
	p.ID = s.next
	s.rows[p.ID] = *p
	return nil
}

func (s *fakeStore) Update(_ context.Context, p professor.Professor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[p.ID]; !ok {
		return fmt.Errorf("%w", campus.ErrNotExist)
	}

	s.rows[p.ID] = p
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("%w", campus.ErrNotExist)
	}

	delete(s.rows, id)
	return nil
}

type harness struct {
	h     http.Handler
	store *fakeStore
	stub  *session.Stub
	jar   *cookie.Jar
}

func newHarness(t *testing.T, profs ...professor.Professor) harness {
	t.Helper()

	l := logger.New(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	rp := resp.NewResponder(resp.WithLogger(l))

	jar, err := cookie.NewJar(cookie.Config{Env: campus.Testing, Key: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)

	store := newFakeStore(profs...)
	stub := session.NewStub(nil)

	r := router.New(campus.Testing, rp, nil)
	r.OnEveryRequest(
		middleware.InjectSession(stub.Service(), l),
		middleware.InjectParams(rp, l),
	)
	r.HandleRoutes(professor.NewHandler(store, rp, jar, l).Routes())

	return harness{h: middleware.MethodOverride()(r), store: store, stub: stub, jar: jar}
}

func (hs harness) do(t *testing.T, r *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	hs.h.ServeHTTP(w, r)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(w.Code), body["rt"])

	return w, body
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func seed() []professor.Professor {
	comm := int64(20)
	return []professor.Professor{
		{ID: 9901, Name: "김도훈", UserID: "capool", Position: "교수", Sal: 500, Comm: &comm, DeptNo: 101},
		{ID: 9902, Name: "이재우", UserID: "sweat413", Position: "조교수", Sal: 320, DeptNo: 201},
		{ID: 9903, Name: "성연희", UserID: "pureluck", Position: "조교수", Sal: 360, DeptNo: 101},
	}
}

func TestHandlerList(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)

	// Act
	w, body := hs.do(t, httptest.NewRequest(http.MethodGet, "/professor?keyword=%20%EC%9D%B4%EC%9E%AC%20&rows=5", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, professor.Query{Keyword: "이재", Page: 1, Rows: 5}, hs.store.listed)

	items := body["item"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "sweat413", items[0].(map[string]any)["userid"])

	pagenation := body["pagenation"].(map[string]any)
	require.Equal(t, float64(1), pagenation["totalCount"])
	require.Equal(t, float64(5), pagenation["listCount"])

	var remembered string
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	require.NoError(t, hs.jar.Get(r, professor.RowsCookie, &remembered))
	require.Equal(t, "5", remembered)
}

func TestHandlerListRemembersRows(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)
	first := httptest.NewRecorder()
	hs.h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/professor?rows=2", nil))

	r := httptest.NewRequest(http.MethodGet, "/professor?page=2", nil)
	for _, c := range first.Result().Cookies() {
		r.AddCookie(c)
	}

	// Act
	_, body := hs.do(t, r)

	// Assert
	require.Equal(t, professor.Query{Page: 2, Rows: 2}, hs.store.listed)
	require.Len(t, body["item"].([]any), 1)
}

func TestHandlerListBadParams(t *testing.T) {
	for _, target := range []string{"/professor?page=two", "/professor?rows=0", "/professor?rows=101"} {
		t.Run(target, func(t *testing.T) {
			// Arrange
			hs := newHarness(t)

			// Act
			w, _ := hs.do(t, httptest.NewRequest(http.MethodGet, target, nil))

			// Assert
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandlerGet(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)

	// Act
	w, body := hs.do(t, httptest.NewRequest(http.MethodGet, "/professor/9901", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	item := body["item"].(map[string]any)
	require.Equal(t, float64(9901), item["profno"])
	require.Equal(t, "김도훈", item["name"])
	require.Equal(t, float64(20), item["comm"])

	s, err := hs.stub.GetSession(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	last, err := s.GetString(professor.LastViewedKey)
	require.NoError(t, err)
	require.Equal(t, "9901", last)
}

func TestHandlerGetErrors(t *testing.T) {
	for _, tc := range []struct {
		target string
		code   int
	}{
		{"/professor/abc", http.StatusBadRequest},
		{"/professor/1234", http.StatusNotFound},
	} {
		t.Run(tc.target, func(t *testing.T) {
			// Arrange
			hs := newHarness(t, seed()...)

			// Act
			w, body := hs.do(t, httptest.NewRequest(http.MethodGet, tc.target, nil))

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.NotEmpty(t, body["rtmsg"])
		})
	}
}

func TestHandlerCreate(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)
	r := jsonRequest(http.MethodPost, "/professor", `{
		"name": " 박교수 ", "userid": "parkprof", "position": "부교수",
		"sal": 400, "hiredate": "2020-03-02", "deptno": 102
	}`)

	// Act
	w, body := hs.do(t, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	item := body["item"].(map[string]any)
	require.Equal(t, float64(9904), item["profno"])
	require.Equal(t, "박교수", item["name"])
	require.Equal(t, "2020-03-02", item["hiredate"])
	require.Nil(t, item["comm"])
	require.Len(t, hs.store.rows, 4)
}

func TestHandlerCreateErrors(t *testing.T) {
	valid := map[string]any{
		"name": "박교수", "userid": "parkprof", "position": "부교수",
		"sal": 400, "hiredate": "2020-03-02", "deptno": 102,
	}

	for _, tc := range []struct {
		name   string
		change map[string]any
		msg    string
	}{
		{"missing-name", map[string]any{"name": "  "}, "교수 이름을 20자 이내로 입력하세요."},
		{"english-name", map[string]any{"name": "Park"}, "교수 이름은 한글로 입력하세요."},
		{"short-userid", map[string]any{"userid": "pk"}, "아이디는 4자 이상 입력하세요."},
		{"bad-position", map[string]any{"position": "총장"}, "직급을 선택하세요."},
		{"bad-date", map[string]any{"hiredate": "2020/03/02"}, "입사일을 yyyy-mm-dd 형식으로 입력하세요."},
		{"bad-number", map[string]any{"sal": "many"}, "sal 값의 형식이 올바르지 않습니다."},
		{"taken-userid", map[string]any{"userid": "capool"}, "이미 사용중인 아이디입니다."},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			hs := newHarness(t, seed()...)

			payload := make(map[string]any, len(valid))
			for k, v := range valid {
				payload[k] = v
			}
			for k, v := range tc.change {
				payload[k] = v
			}

			b, err := json.Marshal(payload)
			require.NoError(t, err)

			// Act
			w, body := hs.do(t, jsonRequest(http.MethodPost, "/professor", string(b)))

			// Assert
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tc.msg, body["rtmsg"])
			require.Len(t, hs.store.rows, 3)
		})
	}
}

func TestHandlerUpdate(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)
	r := httptest.NewRequest(
		http.MethodPost,
		"/professor/9902",
		strings.NewReader("name=이재우&userid=sweat413&position=부교수&sal=350&hiredate=2001-09-01&comm=15&deptno=201"),
	)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-HTTP-Method-Override", http.MethodPut)

	// Act
	w, body := hs.do(t, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	item := body["item"].(map[string]any)
	require.Equal(t, "부교수", item["position"])
	require.Equal(t, float64(15), item["comm"])
	require.Equal(t, int64(350), hs.store.rows[9902].Sal)
}

func TestHandlerUpdateMissing(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)
	r := jsonRequest(http.MethodPut, "/professor/1", `{
		"name": "박교수", "userid": "parkprof", "position": "부교수",
		"sal": 400, "hiredate": "2020-03-02", "deptno": 102
	}`)

	// Act
	w, _ := hs.do(t, r)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerDelete(t *testing.T) {
	// Arrange
	hs := newHarness(t, seed()...)

	// Act
	w, body := hs.do(t, httptest.NewRequest(http.MethodDelete, "/professor/9903", nil))
	again, _ := hs.do(t, httptest.NewRequest(http.MethodDelete, "/professor/9903", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", body["rtmsg"])
	require.NotContains(t, hs.store.rows, int64(9903))
	require.Equal(t, http.StatusNotFound, again.Code)
}
