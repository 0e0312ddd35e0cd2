// Package templates renders templ components into email HTML.
//
//	html, err := templates.Render(ctx, components.Layout(
//		components.Header("Password reset", ""),
//		components.Text("You requested a password reset."),
//		components.ButtonGroup(components.PrimaryButton("Set new password", link)),
//		components.Footer("Shop"),
//	))
package templates
