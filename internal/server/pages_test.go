package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-board/internal/domain"
	"github.com/Tomlord1122/todo-board/internal/service"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, "/", w.Header().Get("Location"))
}

func getIndex(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	return w.Body.String()
}

func listTodos(t *testing.T, h http.Handler) []service.TodoResponse {
	t.Helper()
	w := doJSON(t, h, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	return decode[[]service.TodoResponse](t, w)
}

func stats(t *testing.T, h http.Handler) domain.Counts {
	t.Helper()
	w := doJSON(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	return decode[domain.Counts](t, w)
}

func TestIndexEmpty(t *testing.T) {
	h, _ := setupTest(t)

	body := getIndex(t, h)
	assert.Contains(t, body, "No users yet.")
	assert.Contains(t, body, "Nothing to do.")
	assert.Contains(t, body, `<strong id="count-total">0</strong>`)
}

func TestFormFlow(t *testing.T) {
	h, _ := setupTest(t)

	postForm(t, h, "/users/add", url.Values{"name": {" Alice "}})
	w := doJSON(t, h, http.MethodGet, "/api/users", "")
	users := decode[[]service.UserResponse](t, w)
	require.Len(t, users, 1)
	alice := users[0]

	postForm(t, h, "/todos/add", url.Values{
		"user_id":  {itoa(alice.ID)},
		"title":    {"Buy milk"},
		"due_date": {"2024-06-01"},
	})
	todos := listTodos(t, h)
	require.Len(t, todos, 1)
	milk := todos[0]
	assert.Equal(t, "Buy milk", milk.Title)

	body := getIndex(t, h)
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, `value="Buy milk"`)
	assert.Contains(t, body, `value="2024-06-01"`)
	assert.Contains(t, body, `<strong id="count-open">1</strong>`)
	assert.Contains(t, body, `<strong id="count-overdue">1</strong>`)

	// Checking is_done without re-posting the due date keeps it.
	postForm(t, h, "/todos/edit/"+itoa(milk.ID), url.Values{
		"title":   {"Buy oat milk"},
		"is_done": {"on"},
	})
	todos = listTodos(t, h)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy oat milk", todos[0].Title)
	assert.Equal(t, milk.DueDate, todos[0].DueDate)
	assert.True(t, todos[0].IsDone)
	assert.Equal(t, domain.Counts{Total: 1, Done: 1, Users: 1}, stats(t, h))

	postForm(t, h, "/todos/toggle/"+itoa(milk.ID), url.Values{})
	assert.False(t, listTodos(t, h)[0].IsDone)

	// An unchecked box marks the todo open; clear_due_date removes the date.
	postForm(t, h, "/todos/edit/"+itoa(milk.ID), url.Values{"clear_due_date": {"on"}})
	todos = listTodos(t, h)
	assert.Nil(t, todos[0].DueDate)
	assert.Equal(t, "Buy oat milk", todos[0].Title)
	assert.False(t, todos[0].IsDone)

	postForm(t, h, "/todos/delete/"+itoa(milk.ID), url.Values{})
	assert.Empty(t, listTodos(t, h))

	postForm(t, h, "/users/delete/"+itoa(alice.ID), url.Values{})
	assert.Equal(t, domain.Counts{}, stats(t, h))
}

func TestFormFailuresLeaveStateUnchanged(t *testing.T) {
	h, _ := setupTest(t)

	postForm(t, h, "/users/add", url.Values{"name": {"Alice"}})
	postForm(t, h, "/users/add", url.Values{"name": {"Alice"}})
	postForm(t, h, "/users/add", url.Values{"name": {"   "}})
	assert.EqualValues(t, 1, stats(t, h).Users)

	postForm(t, h, "/todos/add", url.Values{"user_id": {"999"}, "title": {"ghost"}})
	postForm(t, h, "/todos/add", url.Values{"user_id": {"abc"}, "title": {"bad id"}})
	postForm(t, h, "/todos/add", url.Values{"user_id": {"1"}, "title": {"  "}})
	assert.Empty(t, listTodos(t, h))

	postForm(t, h, "/todos/add", url.Values{"user_id": {"1"}, "title": {"keep"}})
	todos := listTodos(t, h)
	require.Len(t, todos, 1)

	// A blank title rejects the whole edit, including the checkbox.
	postForm(t, h, "/todos/edit/"+itoa(todos[0].ID), url.Values{"title": {" "}, "is_done": {"on"}})
	after := listTodos(t, h)
	assert.Equal(t, "keep", after[0].Title)
	assert.False(t, after[0].IsDone)

	postForm(t, h, "/todos/delete/999", url.Values{})
	postForm(t, h, "/todos/toggle/nope", url.Values{})
	postForm(t, h, "/users/delete/0", url.Values{})
	assert.Equal(t, domain.Counts{Total: 1, Open: 1, Users: 1}, stats(t, h))
}
