// Package testutil provides helpers shared by the facturator test suites.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a sqlmock-backed GORM database speaking the postgres dialect.
// It is closed on test cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// Envelope is the decoded form of every API response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// DecodeEnvelope parses the response body as an API envelope.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// DecodeData parses the data field of a successful response into T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "Expected a successful response: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// AssertErrorCode asserts the response is a failed envelope with the given code.
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, w.Code, w.Body.String())
	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error, "Expected an error object")
	assert.Equal(t, code, env.Error.Code)
}

// JSONRequest builds a request with v marshalled as its JSON body. A nil v sends no body.
func JSONRequest(t *testing.T, method, path string, v any) *http.Request {
	t.Helper()

	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		require.NoError(t, err, "Failed to marshal request body")
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// MultipartRequest builds a multipart/form-data request with one file part and form fields.
func MultipartRequest(t *testing.T, path, field, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// Serve runs req through handler and returns the recorded response.
func Serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// StatementPreambleRows is the number of bank banner rows before the statement header
const StatementPreambleRows = 10

// Movement is one row of a bank statement export
type Movement struct {
	OperationDate string
	ValueDate     string
	Concept       string
	Amount        string
}

// StatementHTML lays out movements the way the bank's HTML export does: a banner,
// a header row and spacer columns between the data cells.
func StatementHTML(movements ...Movement) []byte {
	var sb strings.Builder
	sb.WriteString(`<html><head><meta charset="utf-8"></head><body><table>`)
	for i := 0; i < StatementPreambleRows; i++ {
		fmt.Fprintf(&sb, `<tr><td colspan="3">Banco de pruebas %d</td></tr>`, i)
	}
	writeRow := func(cells ...string) {
		sb.WriteString("<tr>")
		for _, c := range cells {
			fmt.Fprintf(&sb, "<td>%s</td>", c)
		}
		sb.WriteString("</tr>")
	}
	writeRow("", "Fecha Operación", "", "Fecha Valor", "", "Concepto", "", "Importe", "", "", "Saldo")
	for _, m := range movements {
		valueDate := m.ValueDate
		if valueDate == "" {
			valueDate = m.OperationDate
		}
		writeRow("", m.OperationDate, "", valueDate, "", m.Concept, "", m.Amount, "", "", "")
	}
	sb.WriteString("</table></body></html>")
	return []byte(sb.String())
}
