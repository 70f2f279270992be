// Command tablegen writes a synthetic inventory table as TSV, optionally
// appending rows at a steady rate so --follow has something to watch.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"packgrid/internal/model"
	"packgrid/internal/parse"
)

func main() {
	var (
		rows        int
		rate        float64
		outPath     string
		untyped     bool
		durationStr string
	)

	flag.IntVar(&rows, "rows", 1000, "Rows written up front")
	flag.Float64Var(&rate, "rate", 0, "Rows appended per second after the initial batch (0 = stop)")
	flag.StringVar(&outPath, "out", "", "Output file path. Empty writes to stdout")
	flag.BoolVar(&untyped, "untyped", false, "Write bare column names so the reader infers kinds")
	flag.StringVar(&durationStr, "duration", "", "Optional append duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.Parse()

	var interrupted atomic.Bool
	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted.Store(true)
		close(abort)
	}()

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}
	shouldStop := func() bool {
		select {
		case <-abort:
			return true
		default:
		}
		return !deadline.IsZero() && time.Now().After(deadline)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	g := newGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	writeHeader(w, untyped)
	for i := 0; i < rows && !shouldStop(); i++ {
		writeLine(w, parse.FormatRow(g.next()))
	}
	_ = w.Flush()
	if rate <= 0 {
		return
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "appending rows -> %s at %.2f rows/s\n", outPath, rate)
	}
	runStream(w, g, rate, shouldStop)
	if interrupted.Load() && outPath != "" {
		fmt.Fprintf(os.Stderr, "stopped after %d rows\n", g.n)
	}
}

var columns = []model.Column{
	{Name: "sku", Kind: model.KindRef, Frozen: true},
	{Name: "name", Kind: model.KindText, Editable: true, Frozen: true},
	{Name: "warehouse", Kind: model.KindText, Editable: true},
	{Name: "qty", Kind: model.KindInteger, Editable: true},
	{Name: "unit_price", Kind: model.KindFloat, Editable: true},
	{Name: "active", Kind: model.KindBool, Editable: true},
	{Name: "supplier_id", Kind: model.KindRef},
	{Name: "notes", Kind: model.KindText, Editable: true, Multiline: true},
}

func writeHeader(w *bufio.Writer, untyped bool) {
	if !untyped {
		writeLine(w, parse.FormatHeader(columns))
		return
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = parse.Escape(c.Name)
	}
	writeLine(w, strings.Join(names, "\t"))
}

func writeLine(w *bufio.Writer, s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func runStream(w *bufio.Writer, g *generator, rate float64, shouldStop func() bool) {
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if shouldStop() {
			return
		}
		writeLine(w, parse.FormatRow(g.next()))
		_ = w.Flush()
	}
}

type generator struct {
	r *rand.Rand
	n int
}

func newGenerator(r *rand.Rand) *generator { return &generator{r: r} }

var (
	adjectives = []string{"Steel", "Oak", "Brass", "Ceramic", "Nylon", "Copper", "Bamboo", "Rubber"}
	nouns      = []string{"bracket", "hinge", "washer", "spool", "clamp", "gasket", "pulley", "valve"}
	warehouses = []string{"north", "south", "east", "dock-2", "overflow"}
	notes      = []string{
		"",
		"",
		"reorder below 20",
		"fragile, pack upright",
		"supplier discontinued\nfind an alternative",
		"counted twice, numbers agree",
	}
)

func (g *generator) next() []model.Value {
	g.n++
	pick := func(xs []string) string { return xs[g.r.Intn(len(xs))] }
	return []model.Value{
		model.Ref(fmt.Sprintf("SKU-%06d", g.n)),
		model.Text(pick(adjectives) + " " + pick(nouns)),
		model.Text(pick(warehouses)),
		model.Int(int64(g.r.Intn(500))),
		model.Float(float64(g.r.Intn(100000)) / 100),
		model.Bool(g.r.Float64() < 0.8),
		model.Ref(fmt.Sprintf("SUP-%03d", g.r.Intn(40)+1)),
		model.Text(pick(notes)),
	}
}
