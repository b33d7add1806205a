// Package blog orders rendered blog documents by publication date and derives
// the navigation between neighbouring entries.
//
// Everything here is a pure function of its input: no storage access, no
// logging. The site builder feeds it rendered documents and writes the result.
package blog
