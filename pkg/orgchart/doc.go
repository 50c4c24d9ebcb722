// Package orgchart builds the reporting tree for an organization.
//
// It turns the flat person list into a forest of nodes with layout hints
// (depth, horizontal center, subtree width) that the chart view can render
// directly. It also owns the cycle checks run before manager or team parent
// changes are accepted.
package orgchart
