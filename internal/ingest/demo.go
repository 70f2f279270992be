package ingest

import (
	"context"
	"fmt"
	"time"

	"packgrid/internal/model"
	"packgrid/internal/parse"
)

const demoHeader = "id:ref:frozen:ro\titem:text:frozen\tcategory:text\tweight_kg:float\tqty:int\tpacked:bool\tnotes:longtext"

var demoItems = []struct {
	item, category string
	weight         float64
	qty            int64
	packed         bool
	notes          string
}{
	{"Tent", "shelter", 2.4, 1, true, "Two-person, check the pole sleeve"},
	{"Sleeping bag", "shelter", 1.1, 2, true, ""},
	{"Stove", "kitchen", 0.35, 1, false, "Bring the windscreen"},
	{"Gas canister", "kitchen", 0.45, 2, false, ""},
	{"Headlamp", "tools", 0.09, 2, true, "Spare batteries in the lid pocket"},
	{"Water filter", "kitchen", 0.3, 1, false, ""},
	{"Rain jacket", "clothing", 0.4, 2, true, ""},
	{"First aid kit", "tools", 0.5, 1, false, "Restock blister plasters\nand check expiry dates"},
	{"Map", "navigation", 0.1, 1, true, ""},
	{"Compass", "navigation", 0.05, 1, false, ""},
}

// DemoTable is the packing list shown when no input is given.
func DemoTable() ([]model.Column, [][]model.Value) {
	cols, _, _ := parse.ParseHeader(demoHeader)
	rows := make([][]model.Value, 0, len(demoItems))
	for i := range demoItems {
		rows = append(rows, demoRow(i))
	}
	return cols, rows
}

func demoRow(i int) []model.Value {
	d := demoItems[i%len(demoItems)]
	return []model.Value{
		model.Ref(fmt.Sprintf("P%04d", i+1)),
		model.Text(d.item),
		model.Text(d.category),
		model.Float(d.weight),
		model.Int(d.qty),
		model.Bool(d.packed),
		model.Text(d.notes),
	}
}

func demo(ctx context.Context, every time.Duration, out chan<- Line) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	i := len(demoItems)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- Line{Text: parse.FormatRow(demoRow(i)), Source: "demo", When: time.Now()}:
				i++
			case <-ctx.Done():
				return
			}
		}
	}
}
