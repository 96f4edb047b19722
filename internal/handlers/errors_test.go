package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func respondAndDecode(t *testing.T, err error) (int, map[string]interface{}, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	handled := respondTypedError(c, "TEST", err)
	if !handled {
		return 0, nil, false
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return rec.Code, body, true
}

func TestRespondTypedErrorInsufficientStock(t *testing.T) {
	status, body, handled := respondAndDecode(t, insufficientStockError{
		ProductID: "abc123",
		Available: 3,
		Requested: 5,
	})
	if !handled {
		t.Fatal("insufficientStockError was not handled")
	}
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["code"] != "insufficient_stock" {
		t.Fatalf("unexpected code: %v", body["code"])
	}
	if body["available"] != float64(3) || body["requested"] != float64(5) {
		t.Fatalf("unexpected stock counts in body: %v", body)
	}
}

func TestRespondTypedErrorProductNotFound(t *testing.T) {
	status, body, handled := respondAndDecode(t, productNotFoundError{ProductID: "abc"})
	if !handled {
		t.Fatal("productNotFoundError was not handled")
	}
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body["code"] != "product_not_found" {
		t.Fatalf("unexpected code: %v", body["code"])
	}
}

func TestRespondTypedErrorEmptyOrder(t *testing.T) {
	status, body, handled := respondAndDecode(t, emptyOrderError{})
	if !handled {
		t.Fatal("emptyOrderError was not handled")
	}
	if status != http.StatusBadRequest || body["code"] != "empty_order" {
		t.Fatalf("got status=%d code=%v", status, body["code"])
	}
}

func TestRespondTypedErrorTotalMismatch(t *testing.T) {
	status, body, handled := respondAndDecode(t, totalMismatchError{Claimed: 10, Computed: 12.5})
	if !handled {
		t.Fatal("totalMismatchError was not handled")
	}
	if status != http.StatusBadRequest || body["code"] != "total_mismatch" {
		t.Fatalf("got status=%d code=%v", status, body["code"])
	}
	if body["expected"] != 12.5 {
		t.Fatalf("expected computed total in body, got %v", body["expected"])
	}
}

func TestRespondTypedErrorInvalidTransition(t *testing.T) {
	status, body, handled := respondAndDecode(t, invalidTransitionError{From: "delivered", To: "pending"})
	if !handled {
		t.Fatal("invalidTransitionError was not handled")
	}
	if status != http.StatusBadRequest || body["code"] != "invalid_transition" {
		t.Fatalf("got status=%d code=%v", status, body["code"])
	}
}

func TestRespondTypedErrorCartLineNotFound(t *testing.T) {
	status, body, handled := respondAndDecode(t, cartLineNotFoundError{ProductID: "abc", Size: "M"})
	if !handled {
		t.Fatal("cartLineNotFoundError was not handled")
	}
	if status != http.StatusNotFound || body["code"] != "not_found" {
		t.Fatalf("got status=%d code=%v", status, body["code"])
	}
}

func TestRespondTypedErrorUnknownError(t *testing.T) {
	_, _, handled := respondAndDecode(t, errors.New("boom"))
	if handled {
		t.Fatal("plain errors must not be handled by the taxonomy")
	}
}

func TestRespondTypedErrorWrappedError(t *testing.T) {
	wrapped := errorWrap{inner: productNotFoundError{ProductID: "abc"}}
	status, _, handled := respondAndDecode(t, wrapped)
	if !handled {
		t.Fatal("wrapped taxonomy errors must still be handled")
	}
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

type errorWrap struct{ inner error }

func (w errorWrap) Error() string { return "wrapped: " + w.inner.Error() }
func (w errorWrap) Unwrap() error { return w.inner }
