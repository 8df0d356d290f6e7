package cli

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blogwriter/margins/internal/bus"
	"github.com/blogwriter/margins/internal/dispatch"
	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/transform"
)

var (
	editType string
	editSeed int64
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <file|->",
	Short: "Apply a deterministic quick edit to text",
	Long: `Edit applies one rule-based rewrite to the input text and prints
the result. Quick edits are literal substitutions, not generative
rewriting.

Edit types: improve, add-transition, shorten, expand, professionalize,
add-data.

Example:
  echo "This is very really quite good." | margins edit - --type shorten
  margins edit draft.txt --type professionalize
  margins edit draft.txt --type add-transition --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editType, "type", "", "edit type to apply (required)")
	editCmd.Flags().Int64Var(&editSeed, "seed", 0, "seed for the transition-phrase choice (0 = time-seeded)")
	_ = editCmd.MarkFlagRequired("type")
}

func runEdit(cmd *cobra.Command, args []string) error {
	et := model.EditType(editType)
	if !model.ValidEditType(et) {
		return fmt.Errorf("unknown edit type %q (known: %s)", editType, knownEditTypes())
	}

	text, err := readInput(args[0])
	if err != nil {
		return err
	}
	text = strings.TrimRight(text, "\n")

	var rng *rand.Rand
	if editSeed != 0 {
		rng = rand.New(rand.NewSource(editSeed))
	}

	// Route through the dispatcher so the broadcast carries the same
	// payload the editor surface would see.
	b := bus.NewMemory()
	var edited string
	b.Subscribe(bus.EventReplaceSelectedText, func(payload interface{}) {
		edited = payload.(bus.ReplaceSelectedText).EditedText
	})

	d := dispatch.NewDispatcher(transform.NewEngine(rng), b, nil)
	d.Dispatch(et, text, nil)

	fmt.Println(edited)
	return nil
}

func knownEditTypes() string {
	types := model.EditTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
