package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Result records one HTTP outcome for the summary.
type Result struct {
	Status int
	Body   string
	Err    error
}

// Hammers the demo-path checkout with distinct buyers to verify the stock
// ledger never oversells: with stock preloaded to N and more than N buyers,
// exactly N verify calls succeed.
func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	productID := flag.Uint("product", 1, "product id")
	nBuyers := flag.Int("buyers", 200, "distinct buyers")
	concurrency := flag.Int("c", 50, "max concurrency")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	fmt.Printf("start oversell test: product=%d buyers=%d concurrency=%d\n", *productID, *nBuyers, *concurrency)

	sem := make(chan struct{}, *concurrency)
	var wg sync.WaitGroup
	results := make([]Result, *nBuyers)

	for i := 0; i < *nBuyers; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = buyOnce(client, *baseURL, *productID, fmt.Sprintf("buyer-%d", idx+1))
		}(i)
	}
	wg.Wait()

	printSummary(results)
}

func buyOnce(client *http.Client, baseURL string, productID uint, buyerID string) Result {
	body := map[string]any{
		"product_id":     productID,
		"quantity":       1,
		"payment_method": "online",
		"is_demo":        true,
		"delivery_address": map[string]string{
			"full_name": "Load Tester",
			"mobile":    "9999999999",
			"pincode":   "560001",
		},
	}
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/payment/verify-payment", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", buyerID)
	req.Header.Set("X-User-Role", "buyer")

	resp, err := client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(data)}
}

func printSummary(results []Result) {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Println("http status summary:")
	for _, code := range []int{200, 400, 401, 404, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
}
