// Command schemagen writes the JSON schema for configuration documents.
// It is run by go generate from the api/v1beta1/configs directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/macropower/prompter/api/v1beta1/configs"
	"github.com/macropower/prompter/pkg/yaml"
)

const modulePath = "github.com/macropower/prompter"

func main() {
	outFile := pflag.StringP("out", "o", "schema.json", "Output file for the generated schema")
	apiDir := pflag.String("api-dir", "..", "Directory holding the api/v1beta1 packages, read for field documentation")
	pflag.Parse()

	gen := yaml.NewSchemaGenerator(configs.New(), map[string]string{
		modulePath + "/api/v1beta1": *apiDir,
	})

	jsData, err := gen.Generate()
	if err != nil {
		fatal(fmt.Errorf("generate JSON schema: %w", err))
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		fatal(fmt.Errorf("write schema file: %w", err))
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
