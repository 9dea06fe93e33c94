package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rajgohel2908/Memora/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestHandleHTTP(t *testing.T) {
	t.Run("client error keeps message", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, goerr.New("title is too long"), http.StatusBadRequest)

		gt.V(t, w.Code).Equal(http.StatusBadRequest)
		var body map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.V(t, body["message"]).Equal("title is too long")
	})

	t.Run("server error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := goerr.New("database exploded", goerr.V("table", "memories"))
		errutil.HandleHTTP(context.Background(), w, err, http.StatusInternalServerError)

		gt.V(t, w.Code).Equal(http.StatusInternalServerError)
		gt.S(t, w.Body.String()).NotContains("exploded")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, nil, http.StatusInternalServerError)
		gt.V(t, w.Body.Len()).Equal(0)
	})
}
