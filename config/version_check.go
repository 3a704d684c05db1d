package config

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/stacksynth/stacksynth/version"
)

func decodeStackBlock(block *hcl.Block) hcl.Diagnostics {
	content, diags := block.Body.Content(stackBlockSchema)
	if attr, ok := content.Attributes["required_version"]; ok {
		diags = append(diags, checkRequiredVersion(attr)...)
	}
	return diags
}

// checkRequiredVersion verifies that the running stacksynth satisfies the
// stack's required_version constraint, so a stack written against a newer
// release fails up front instead of producing a subtly wrong plan.
func checkRequiredVersion(attr *hcl.Attribute) hcl.Diagnostics {
	var diags hcl.Diagnostics

	val, valDiags := attr.Expr.Value(nil)
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return diags
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil || val.IsNull() {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid required_version",
			Detail:   "required_version must be a version constraint string.",
			Subject:  attr.Expr.Range().Ptr(),
		})
	}

	constraint, err := goversion.NewConstraint(val.AsString())
	if err != nil {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid required_version constraint",
			Detail:   fmt.Sprintf("The constraint %q could not be parsed: %s.", val.AsString(), err),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}

	// Prereleases compare equal to their release for this purpose.
	running := version.SemVer.Core()
	if !constraint.Check(running) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported stacksynth version",
			Detail: fmt.Sprintf(
				"This stack requires stacksynth %s, but the running version is %s.",
				constraint, version.String()),
			Subject: attr.Expr.Range().Ptr(),
		})
	}
	return diags
}
