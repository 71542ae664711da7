// Command seed loads a small demo dataset into a running cluster by
// posting records to the leader's /insert endpoint. Useful for trying
// out search queries against a fresh cluster.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dreamware/scatterstore/internal/cluster"
)

type sample struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	City string `json:"city"`
}

var samples = []sample{
	{Name: "An", Age: 22, City: "Hanoi"},
	{Name: "Binh", Age: 35, City: "Da Nang"},
	{Name: "Cuong", Age: 19, City: "Ho Chi Minh"},
	{Name: "Dung", Age: 41, City: "Hanoi"},
	{Name: "Giang", Age: 28, City: "Can Tho"},
	{Name: "Hoa", Age: 30, City: "Da Nang"},
}

func main() {
	leader := flag.String("leader", "http://127.0.0.1:5000", "leader base URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted := 0
	for _, rec := range samples {
		var reply struct {
			Status string `json:"status"`
			ID     string `json:"_id"`
		}
		err := cluster.PostJSON(ctx, *leader+"/insert", rec, &reply)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insert %s: %v\n", rec.Name, err)
			continue
		}
		fmt.Printf("inserted %s (%s)\n", rec.Name, reply.ID)
		inserted++
	}

	fmt.Printf("done: %d/%d records inserted\n", inserted, len(samples))
	if inserted != len(samples) {
		os.Exit(1)
	}
}
