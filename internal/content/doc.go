// Package content manages the published material of the site: sections and
// the posts within them. It is pure storage and retrieval; access control
// happens in the API layer.
package content
