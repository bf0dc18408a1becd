// Command settle reads a bill as JSON and prints who owes what and the
// transfers that settle it.
//
//	settle -f dinner.json
//	cat dinner.json | settle -lang de
//
// The input has the shape of the Calculate request:
//
//	{
//	  "participants": [{"id": "alice", "is_payer": true}, {"id": "bob"}],
//	  "items": [{"description": "Pizza", "amount": "24.00"}]
//	}
//
// With -json the output is the Calculate response document.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/rpc"
)

func main() {
	var (
		file    = flag.String("f", "-", "bill JSON file, - for stdin")
		lang    = flag.String("lang", "en", "BCP 47 language tag for number formatting")
		jsonOut = flag.Bool("json", false, "print the result as JSON instead of tables")
	)
	flag.Parse()

	if err := run(*file, *lang, *jsonOut, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "settle:", err)
		os.Exit(1)
	}
}

func run(file, lang string, jsonOut bool, stdin io.Reader, stdout io.Writer) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid -lang %q: %w", lang, err)
	}

	in := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var req rpc.CalculateRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("reading bill: %w", err)
	}

	items, participants := engineInput(&req)
	result, err := calculator.Settle(items, participants)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rpc.NewCalculateResponse(result))
	}

	_, err = io.WriteString(stdout, render(result, tag))
	return err
}

func engineInput(req *rpc.CalculateRequest) ([]calculator.BillItem, []calculator.Participant) {
	items := make([]calculator.BillItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = calculator.BillItem{
			Description: item.Description,
			Amount:      item.Amount,
			Shares:      item.Shares,
		}
	}

	participants := make([]calculator.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = calculator.Participant{ID: p.ID, IsPayer: p.IsPayer}
	}
	return items, participants
}
