package anvil_test

import (
	"fmt"
	"strings"

	"github.com/anvil-di/anvil"
)

// Formatter is a framework extension point used by the examples.
type Formatter interface {
	anvil.Component
	Format(s string) string
}

type UpperFormatter struct {
	anvil.ComponentBase
}

func NewUpperFormatter() *UpperFormatter { return &UpperFormatter{} }

func (f *UpperFormatter) Format(s string) string { return strings.ToUpper(s) }

type QuoteFormatter struct {
	anvil.ComponentBase
}

func NewQuoteFormatter() *QuoteFormatter { return &QuoteFormatter{} }

func (f *QuoteFormatter) Format(s string) string { return "\"" + s + "\"" }

func Example() {
	registry, err := anvil.New()
	if err != nil {
		panic(err)
	}
	defer registry.Close()

	upper := anvil.MustImplement[*UpperFormatter](NewUpperFormatter)
	if err := anvil.Add[Formatter](registry, upper); err != nil {
		panic(err)
	}

	formatter, err := anvil.Get[Formatter](registry)
	if err != nil {
		panic(err)
	}

	fmt.Println(formatter.Format("anvil"))
	// Output: ANVIL
}

func ExampleRegistry_Child() {
	parent, err := anvil.New()
	if err != nil {
		panic(err)
	}
	defer parent.Close()

	if err := anvil.Add[Formatter](parent, anvil.MustImplement[*UpperFormatter](NewUpperFormatter)); err != nil {
		panic(err)
	}

	child, err := parent.Child()
	if err != nil {
		panic(err)
	}
	defer child.Close()

	// The child falls back to the parent until it binds an override.
	inherited, _ := anvil.Get[Formatter](child)
	fmt.Println(inherited.Format("fallback"))

	if err := anvil.Add[Formatter](child, anvil.MustImplement[*QuoteFormatter](NewQuoteFormatter)); err != nil {
		panic(err)
	}
	overridden, _ := anvil.Get[Formatter](child)
	fmt.Println(overridden.Format("override"))

	// Output:
	// FALLBACK
	// "override"
}

func ExampleRegistry_GetAll() {
	parent, err := anvil.New()
	if err != nil {
		panic(err)
	}
	defer parent.Close()
	if err := anvil.Add[Formatter](parent, anvil.MustImplement[*UpperFormatter](NewUpperFormatter)); err != nil {
		panic(err)
	}

	child, err := parent.Child()
	if err != nil {
		panic(err)
	}
	defer child.Close()
	if err := anvil.Add[Formatter](child, anvil.MustImplement[*QuoteFormatter](NewQuoteFormatter)); err != nil {
		panic(err)
	}

	// Child bindings come before the parent's, so the first match wins.
	formatters, err := anvil.GetAll[Formatter](child)
	if err != nil {
		panic(err)
	}
	for _, f := range formatters {
		fmt.Println(f.Format("x"))
	}

	// Output:
	// "x"
	// X
}
