// Package components holds inline-styled building blocks for HTML emails.
// Containers take their children as arguments; text is always escaped and
// links pass templ's URL sanitizer.
package components
