package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

var (
	merchants  = []string{"Swiggy", "Zomato", "Uber", "Ola", "Amazon", "Flipkart", "Paytm", "Jio", "Airtel", "Netflix"}
	categories = []string{"Food", "Food", "Travel", "Travel", "Shopping", "Shopping", "Utility", "Utility", "Utility", "Subscription"}
)

// Synthetic transaction corpus: 95% normal spending against a fixed set of
// merchants during waking hours, 5% anomalies of three kinds (extreme
// amounts, unknown merchants, small-hours activity).
func main() {
	out := flag.String("out", "transactions.csv", "Output CSV path")
	count := flag.Int("n", 1000, "Number of transactions to generate")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Transaction ID", "Timestamp", "Merchant", "Category", "Amount", "Status", "Location", "Flag"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	rows := make([][]string, 0, *count)
	normal := *count * 95 / 100
	for i := 0; i < normal; i++ {
		rows = append(rows, normalRow(rng))
	}
	for i := normal; i < *count; i++ {
		rows = append(rows, fraudRow(rng))
	}
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			log.Fatalf("Failed to write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}

	log.Printf("Wrote %d transactions to %s (%d normal, %d anomalous)",
		len(rows), *out, normal, len(rows)-normal)
}

func normalRow(rng *rand.Rand) []string {
	idx := rng.Intn(len(merchants))
	amount := 50 + rng.Float64()*1950
	if categories[idx] == "Shopping" {
		amount = 500 + rng.Float64()*4500
	}

	ts := randomTimestamp(rng)
	// Normal spending happens between 7 AM and 11 PM.
	if ts.Hour() < 7 {
		ts = time.Date(ts.Year(), ts.Month(), ts.Day(), 7+rng.Intn(17), ts.Minute(), ts.Second(), 0, time.UTC)
	}

	return row(ts, merchants[idx], categories[idx], amount, "0")
}

func fraudRow(rng *rand.Rand) []string {
	switch rng.Intn(3) {
	case 0: // HighAmount
		ts := randomTimestamp(rng)
		amount := 10000 + rng.Float64()*40000
		return row(ts, merchants[rng.Intn(len(merchants))], "Shopping", amount, "1")
	case 1: // UnknownMerchant
		ts := randomTimestamp(rng)
		amount := 100 + rng.Float64()*4900
		merchant := faker.Word() + " " + faker.LastName() + " Pvt Ltd"
		return row(ts, merchant, "Transfer", amount, "1")
	default: // OddTime
		ts := randomTimestamp(rng)
		ts = time.Date(ts.Year(), ts.Month(), ts.Day(), 1+rng.Intn(4), ts.Minute(), ts.Second(), 0, time.UTC)
		amount := 50 + rng.Float64()*4950
		return row(ts, merchants[rng.Intn(len(merchants))], "Unknown", amount, "1")
	}
}

func row(ts time.Time, merchant, category string, amount float64, flag string) []string {
	return []string{
		uuid.NewString(),
		ts.Format("2006-01-02 15:04:05"),
		merchant,
		category,
		fmt.Sprintf("%.2f", amount),
		"Success",
		faker.GetRealAddress().City,
		flag,
	}
}

func randomTimestamp(rng *rand.Rand) time.Time {
	// Uniform over the last 90 days.
	offset := time.Duration(rng.Int63n(int64(90 * 24 * time.Hour)))
	return time.Now().UTC().Add(-offset)
}
