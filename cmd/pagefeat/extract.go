package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/pagefeat"
	"github.com/fwojciec/pagefeat/extract"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	sources, documents, err := c.documents(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagefeat.ErrorMessage(err))
		return err
	}

	if len(documents) == 1 {
		outcome, err := deps.Extractor.Extract(deps.Ctx, documents[0])
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagefeat.ErrorMessage(err))
			return err
		}
		if c.JSON {
			return writeJSON(deps.Stdout, outcomeJSON(outcome))
		}
		printOutcome(deps.Stdout, outcome)
		return nil
	}

	results := extract.All(deps.Ctx, deps.Extractor, documents, c.Concurrency)

	var firstErr error
	batch := make([]batchJSON, len(results))
	for i, r := range results {
		batch[i].Source = sources[i]
		if r.Err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", sources[i], pagefeat.ErrorMessage(r.Err))
			batch[i].Error = pagefeat.ErrorMessage(r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		batch[i].Result = outcomeJSON(r.Outcome)
		if !c.JSON {
			fmt.Fprintf(deps.Stdout, "==> %s <==\n", sources[i])
			printOutcome(deps.Stdout, r.Outcome)
			fmt.Fprintln(deps.Stdout)
		}
	}
	if c.JSON {
		if err := writeJSON(deps.Stdout, batch); err != nil {
			return err
		}
	}
	return firstErr
}

// documents reads the inputs named by the flags and returns each with the
// name it is reported under.
func (c *ExtractCmd) documents(deps *Dependencies) (sources, documents []string, err error) {
	switch {
	case c.URL != "" && len(c.Paths) > 0:
		return nil, nil, pagefeat.Errorf(pagefeat.EINVALID, "give either paths or --url, not both")
	case c.URL != "":
		fetcher, err := deps.NewFetcher(c.Render)
		if err != nil {
			return nil, nil, err
		}
		defer fetcher.Close()
		doc, err := fetcher.Fetch(deps.Ctx, c.URL)
		if err != nil {
			return nil, nil, err
		}
		return []string{c.URL}, []string{doc}, nil
	case c.Render:
		return nil, nil, pagefeat.Errorf(pagefeat.EINVALID, "--render requires --url")
	case len(c.Paths) == 0:
		return nil, nil, pagefeat.Errorf(pagefeat.EINVALID, "path or --url required")
	}

	stdinUsed := false
	for _, path := range c.Paths {
		var data []byte
		var err error
		if path == "-" {
			if stdinUsed {
				return nil, nil, pagefeat.Errorf(pagefeat.EINVALID, "standard input given more than once")
			}
			stdinUsed = true
			data, err = io.ReadAll(deps.Stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, nil, pagefeat.Errorf(pagefeat.EINVALID, "cannot read %s: %v", path, err)
		}
		doc, err := pagefeat.DecodeDocument(data)
		if err != nil {
			return nil, nil, pagefeat.Errorf(pagefeat.EINVALID, "%s: %s", path, pagefeat.ErrorMessage(err))
		}
		sources = append(sources, path)
		documents = append(documents, doc)
	}
	return sources, documents, nil
}

// printOutcome writes the Action and Information sections, or the retry
// notice when the model produced nothing usable.
func printOutcome(w io.Writer, outcome pagefeat.Outcome) {
	found, ok := outcome.(pagefeat.Found)
	if !ok {
		fmt.Fprintln(w, "Model did not perform tool call. Please retry.")
		return
	}

	fmt.Fprint(w, "\nAction\n\n")
	for _, a := range found.Features.Actions {
		fmt.Fprintf(w, "description=%q process=%q\n", a.Description, a.Process)
	}
	fmt.Fprint(w, "\nInformation\n\n")
	for _, info := range found.Features.Info {
		fmt.Fprintf(w, "description=%q\n", info.Description)
	}
}

type notFoundJSON struct {
	Found  bool   `json:"found"`
	Reason string `json:"reason"`
}

// batchJSON is one entry of the --json output for several documents.
type batchJSON struct {
	Source string `json:"source"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// outcomeJSON returns the value printed for outcome: the features
// themselves, or the not found marker the HTTP endpoint also uses.
func outcomeJSON(outcome pagefeat.Outcome) any {
	switch o := outcome.(type) {
	case pagefeat.Found:
		return o.Features
	case pagefeat.NotFound:
		return notFoundJSON{Found: false, Reason: o.Reason}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
