//go:build integration

package tests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/tests/suite"
)

type object = map[string]any

func deposit(st *suite.Suite, userID uuid.UUID, amount string) {
	st.Test.Helper()

	code := st.Do(http.MethodPost, "/users/"+userID.String()+"/funds/deposit", object{"amount": amount}, nil)
	require.Equal(st.Test, http.StatusOK, code)
}

func instantOrder(userID uuid.UUID, symbol, product string, quantity int, price string) object {
	return object{
		"userId":      userID.String(),
		"symbol":      symbol,
		"side":        "BUY",
		"quantity":    quantity,
		"price":       price,
		"productType": product,
		"orderType":   "LIMIT",
	}
}

func orderID(t *testing.T, response object) string {
	t.Helper()

	order, ok := response["order"].(object)
	require.True(t, ok, "response has no order: %v", response)
	return order["id"].(string)
}

func TestInstantOrderLifecycle(test *testing.T) {
	ctx, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "100000")

	var created object
	code := st.Do(http.MethodPost, "/orders/instant", instantOrder(userID, "INFY", "DELIVERY", 10, "1500"), &created)
	require.Equal(test, http.StatusCreated, code, created)
	assert.Equal(test, "15000", created["requiredMargin"])
	assert.Equal(test, "85000", created["funds"].(object)["available"])
	id := orderID(test, created)

	var executed object
	code = st.Do(http.MethodPost, "/orders/"+id+"/execute", object{"executionPrice": "1500", "exchangeOrderId": "NSE-1"}, &executed)
	require.Equal(test, http.StatusOK, code, executed)
	assert.Equal(test, "EXECUTED", executed["order"].(object)["status"])
	assert.Equal(test, true, executed["charges"].(object)["posted"])

	var report object
	code = st.Do(http.MethodGet, "/orders/"+id+"/charges", nil, &report)
	require.Equal(test, http.StatusOK, code)
	assert.NotEmpty(test, report["charges"])
	assert.Equal(test, report["total"], executed["order"].(object)["totalCharges"])
	assert.Positive(test, st.Count(ctx, "SELECT COUNT(*) FROM order_charges WHERE order_id = $1", id))

	var history []object
	code = st.Do(http.MethodGet, "/orders/"+id+"/history", nil, &history)
	require.Equal(test, http.StatusOK, code)
	require.Len(test, history, 2)
	assert.Equal(test, "QUEUED", history[1]["previousStatus"])
	assert.Equal(test, "EXECUTED", history[1]["newStatus"])

	code = st.Do(http.MethodPost, "/orders/"+id+"/cancel", nil, nil)
	assert.Equal(test, http.StatusConflict, code)
}

func TestConcurrentExecutionSucceedsOnce(test *testing.T) {
	ctx, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "100000")

	var created object
	code := st.Do(http.MethodPost, "/orders/instant", instantOrder(userID, "TCS", "INTRADAY", 5, "3400"), &created)
	require.Equal(test, http.StatusCreated, code, created)
	id := orderID(test, created)

	const attempts = 8
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes <- st.Do(http.MethodPost, "/orders/"+id+"/execute",
				object{"executionPrice": "3400", "exchangeOrderId": fmt.Sprintf("NSE-%d", i)}, nil)
		}(i)
	}
	wg.Wait()
	close(codes)

	succeeded := 0
	for code := range codes {
		if code == http.StatusOK {
			succeeded++
			continue
		}
		assert.Equal(test, http.StatusConflict, code)
	}
	assert.Equal(test, 1, succeeded)
	assert.Equal(test, 2, st.Count(ctx, "SELECT COUNT(*) FROM order_history WHERE order_id = $1", id))
}

func TestRejectRestoresFunds(test *testing.T) {
	_, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "20000")

	var created object
	code := st.Do(http.MethodPost, "/orders/normal", object{
		"userId":      userID.String(),
		"symbol":      "SBIN",
		"side":        "SELL",
		"quantity":    20,
		"price":       "800",
		"productType": "DELIVERY",
		"orderType":   "LIMIT",
		"validity":    "DAY",
	}, &created)
	require.Equal(test, http.StatusCreated, code, created)

	code = st.Do(http.MethodPost, "/orders/"+orderID(test, created)+"/reject", object{}, nil)
	assert.Equal(test, http.StatusBadRequest, code)

	var rejected object
	code = st.Do(http.MethodPost, "/orders/"+orderID(test, created)+"/reject", object{"rejectionReason": "circuit limit", "actor": "risk"}, &rejected)
	require.Equal(test, http.StatusOK, code, rejected)
	assert.Equal(test, "16000", rejected["releasedMargin"])

	var funds object
	code = st.Do(http.MethodGet, "/users/"+userID.String()+"/funds", nil, &funds)
	require.Equal(test, http.StatusOK, code)
	assert.Equal(test, "20000", funds["available"])
	assert.Equal(test, "0", funds["used"])
}

func TestInsufficientFundsLeavesAuditRow(test *testing.T) {
	ctx, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "100")

	var failure object
	code := st.Do(http.MethodPost, "/orders/instant", instantOrder(userID, "RELIANCE", "DELIVERY", 1, "2500"), &failure)
	require.Equal(test, http.StatusBadRequest, code)
	assert.Equal(test, "2500", failure["required"])
	assert.Equal(test, "100", failure["available"])

	assert.Equal(test, 0, st.Count(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = $1", userID.String()))
	assert.Equal(test, 1, st.Count(ctx, "SELECT COUNT(*) FROM failed_order_attempts WHERE user_id = $1", userID.String()))
}

func TestMarketOrderUsesInstrumentPrice(test *testing.T) {
	_, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "1000000")

	request := instantOrder(userID, "HDFCBANK", "DELIVERY", 1, "")
	delete(request, "price")
	request["orderType"] = "MARKET"

	var created object
	code := st.Do(http.MethodPost, "/orders/instant", request, &created)
	require.Equal(test, http.StatusCreated, code, created)

	request["symbol"] = "NOSUCH"
	var failure object
	code = st.Do(http.MethodPost, "/orders/instant", request, &failure)
	assert.Equal(test, http.StatusBadRequest, code)
	assert.Equal(test, "symbol", failure["field"])
}

func TestOptionsExecutionRecordsChargeFailure(test *testing.T) {
	ctx, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "50000")

	var created object
	code := st.Do(http.MethodPost, "/orders/instant", instantOrder(userID, "INFY", "OPTIONS", 50, "12.5"), &created)
	require.Equal(test, http.StatusCreated, code, created)
	id := orderID(test, created)

	var executed object
	code = st.Do(http.MethodPost, "/orders/"+id+"/execute", object{"executionPrice": "13"}, &executed)
	require.Equal(test, http.StatusOK, code, executed)
	assert.Equal(test, "EXECUTED", executed["order"].(object)["status"])
	assert.Equal(test, false, executed["charges"].(object)["posted"])
	assert.NotEmpty(test, executed["charges"].(object)["warning"])

	assert.Equal(test, 0, st.Count(ctx, "SELECT COUNT(*) FROM order_charges WHERE order_id = $1", id))
	assert.Equal(test, 1, st.Count(ctx, "SELECT COUNT(*) FROM order_charge_failures WHERE order_id = $1", id))
}

func TestIcebergLegsExecuteInOrder(test *testing.T) {
	ctx, st := suite.New(test)
	userID := uuid.New()
	deposit(st, userID, "1000000")

	var created object
	code := st.Do(http.MethodPost, "/orders/iceberg", object{
		"userId":            userID.String(),
		"symbol":            "INFY",
		"side":              "BUY",
		"quantity":          100,
		"price":             "1500",
		"numOfLegs":         3,
		"disclosedQuantity": 10,
		"productType":       "INTRADAY",
		"orderType":         "LIMIT",
		"validity":          "DAY",
	}, &created)
	require.Equal(test, http.StatusCreated, code, created)
	id := orderID(test, created)

	code = st.Do(http.MethodPost, "/iceberg/"+id+"/execute-next-leg", object{"executionPrice": "1500"}, nil)
	assert.Equal(test, http.StatusConflict, code)

	code = st.Do(http.MethodPost, "/orders/"+id+"/execute", object{"executionPrice": "1500"}, nil)
	require.Equal(test, http.StatusOK, code)

	var leg object
	code = st.Do(http.MethodPost, "/iceberg/"+id+"/execute-next-leg", object{"executionPrice": "1501"}, &leg)
	require.Equal(test, http.StatusOK, code, leg)
	assert.Equal(test, float64(2), leg["executedLeg"].(object)["legNumber"])
	assert.Equal(test, true, leg["hasMoreLegs"])

	code = st.Do(http.MethodPost, "/iceberg/"+id+"/execute-next-leg", object{"executionPrice": "1502"}, &leg)
	require.Equal(test, http.StatusOK, code, leg)
	assert.Equal(test, float64(34), leg["executedLeg"].(object)["quantity"])
	assert.Nil(test, leg["nextLeg"])
	assert.Equal(test, false, leg["hasMoreLegs"])

	code = st.Do(http.MethodPost, "/iceberg/"+id+"/execute-next-leg", object{"executionPrice": "1502"}, nil)
	assert.Equal(test, http.StatusConflict, code)

	assert.Equal(test, 3, st.Count(ctx,
		"SELECT COUNT(*) FROM iceberg_legs WHERE order_id = $1 AND status = 'EXECUTED'", id))
}
