package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/query"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// print writes a record in the selected format, after the jq filter if any.
func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	data, err := mullvad.Serialize(v, mullvad.SerializeOptions{ExcludeNone: o.excludeNone})
	if err != nil {
		return err
	}
	return o.printJSON(cmd, data)
}

// printRaw writes a raw response. JSON bodies go through the same path as
// records; anything else is printed as text.
func (o *rootOptions) printRaw(cmd *cobra.Command, raw *mullvad.RawResponse) error {
	if !raw.OK() {
		errorLabel.Fprintf(cmd.ErrOrStderr(), "HTTP %s\n", raw.Status)
	}
	if raw.IsJSON() {
		return o.printJSON(cmd, raw.Body)
	}
	if o.jq != "" {
		return errors.New("--jq needs a JSON response, got text")
	}
	text := raw.Text()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

func (o *rootOptions) printJSON(cmd *cobra.Command, data []byte) error {
	if o.jq != "" {
		res, err := o.engine.Query(data, o.jq, query.Options{
			MaxResults: o.cfg.QueryMaxResults,
			KeepNulls:  !o.excludeNone,
		})
		if err != nil {
			return err
		}
		for _, msg := range res.Errors {
			errorLabel.Fprintf(cmd.ErrOrStderr(), "jq: %s\n", msg)
		}
		if len(res.Values) == 0 && len(res.Errors) > 0 {
			return errors.New("jq expression produced no results")
		}
		var out any = res.Values
		if len(res.Values) == 1 {
			out = res.Values[0]
		}
		if data, err = json.Marshal(out); err != nil {
			return err
		}
	}

	if o.output == "yaml" {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("converting to YAML: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("converting to YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("formatting JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
