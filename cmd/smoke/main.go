package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Manual end-to-end driver for a running instance: adds a product to a cart,
// starts a checkout, and optionally replays a callback. Needs seeded product
// and user rows.

var apiURL, _ = os.LookupEnv("API_URL")

func main() {
	cartCode := flag.String("cart", "smoke-cart-001", "cart code to settle")
	productID := flag.String("product", "", "product id to add to the cart")
	userID := flag.String("user", "", "user id settling the cart")
	gatewayName := flag.String("gateway", "flutterwave", "payment gateway")
	callbackRef := flag.String("callback", "", "replay a callback for the given reference instead of initiating")
	callbackStatus := flag.String("status", "successful", "callback status parameter")
	callbackTxID := flag.String("txid", "", "callback transaction_id parameter")
	flag.Parse()

	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	if *callbackRef != "" {
		replayCallback(*callbackRef, *callbackStatus, *callbackTxID)
		return
	}

	if *productID == "" || *userID == "" {
		fmt.Println("either -callback, or both -product and -user are required")
		os.Exit(1)
	}

	addItem(*cartCode, *productID)
	initiate(*cartCode, *userID, *gatewayName)
}

func addItem(cartCode, productID string) {
	body, _ := json.Marshal(map[string]string{
		"cart_code":  cartCode,
		"product_id": productID,
	})
	resp, err := http.Post(apiURL+"/api/v1/cart/items", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Println("add item failed:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	dump("add item", resp)
}

func initiate(cartCode, userID, gatewayName string) {
	body, _ := json.Marshal(map[string]string{
		"cart_code": cartCode,
		"gateway":   gatewayName,
	})
	req, _ := http.NewRequest(http.MethodPost, apiURL+"/api/v1/checkout/initiate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("initiate failed:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	dump("initiate", resp)
}

func replayCallback(reference, status, txID string) {
	query := url.Values{}
	query.Set("tx_ref", reference)
	query.Set("status", status)
	if txID != "" {
		query.Set("transaction_id", txID)
	}

	resp, err := http.Post(apiURL+"/api/v1/checkout/callback?"+query.Encode(), "application/json", nil)
	if err != nil {
		fmt.Println("callback failed:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	dump("callback", resp)
}

func dump(step string, resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: status %d, body %s\n", step, resp.StatusCode, body)
}
