package site

import (
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// withPath attaches the source path to an error that does not name one yet.
func withPath(err error, path string) error {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return errors.WrapError(err, errors.CategoryBuild, "build step failed").
			WithContext("path", path).
			Build()
	}
	if _, has := ce.Context().Get("path"); has {
		return err
	}
	return ce.WithContext("path", path)
}

// checkOutputCollisions rejects pages whose aliases map them onto the same
// output file. It runs before anything is written.
func checkOutputCollisions(pages []content.SourceDocument, outputSlug func(string) string) error {
	seen := make(map[string]string, len(pages))
	for _, src := range pages {
		out := outputSlug(src.Slug)
		if prev, dup := seen[out]; dup {
			return errors.ValidationError("pages map to the same output file").
				WithContext("path", out+".html").
				WithContext("first", prev).
				WithContext("second", src.Path).
				Build()
		}
		seen[out] = src.Path
	}
	return nil
}
