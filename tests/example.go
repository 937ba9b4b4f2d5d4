package main

// This is an example of using PawC as a library in a Go application

import (
	"fmt"
	"os"
	"strings"

	"github.com/phroun/pawc"
)

func main() {
	// Create PawC interpreter with custom config
	config := pawc.DefaultConfig()
	config.Debug = false
	pc := pawc.New(config)
	pc.RegisterStandardLibrary(os.Args[1:])

	// Register custom host functions
	pc.RegisterFunctions(map[string]pawc.HostFunction{
		"greet": {ReturnType: pawc.Void, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			name := "World"
			if !args[0].IsNull() {
				name = args[0].Str()
			}
			fmt.Fprintf(ctx.Output, "Hello, %s!\n", name)
			return pawc.Value{}, nil
		}},

		"upper": {ReturnType: pawc.String, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			return pawc.StringValue(strings.ToUpper(args[0].Str())), nil
		}},
	})

	// Host variables are visible to every script
	pc.DefineVariable("limit", pawc.IntValue(5))

	fmt.Println("=== PawC Example ===")
	fmt.Println()

	// Example 1: Calling a host function
	fmt.Println("Example 1: Host function")
	pc.Execute(`greet("Alice");`)
	pc.Execute(`greet(null);`)

	// Example 2: Exit value
	fmt.Println("\nExample 2: Exit value")
	result, err := pc.Execute(`int a = 1; a += 2; exit a;`)
	if err == nil {
		fmt.Printf("exit value: %s (%s)\n", result, result.Type())
	}

	// Example 3: Script functions and host variables
	fmt.Println("\nExample 3: Functions")
	pc.Execute(`
int square(int n) { return n * n; }
for (int i = 1; i <= limit; i++) {
    println(upper("square of ") + i + " is " + square(i));
}
`)

	// Example 4: Compile once, inspect diagnostics, run many times
	fmt.Println("\nExample 4: Compile and run")
	script, diags, err := pc.Compile(`long total = 0; for (int i = 0; i < limit; i++) total += i; exit total;`)
	if err != nil {
		fmt.Println("compile failed:", err)
		return
	}
	fmt.Printf("%d diagnostic(s)\n", len(diags))
	for run := 1; run <= 2; run++ {
		v, err := script.Run(pc.NewContext())
		if err != nil {
			fmt.Println("run failed:", err)
			return
		}
		fmt.Printf("run %d: %s\n", run, v)
	}

	// Example 5: Analysis errors are reported before anything runs
	fmt.Println("\nExample 5: Diagnostics")
	if _, err := pc.Execute(`bool b; int x = b;`); err != nil {
		fmt.Println("rejected:", err)
	}
}
