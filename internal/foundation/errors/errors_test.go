package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "sitebuilder.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "sitebuilder.yaml", file)
	})

	t.Run("Wrapped cause", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "write failed").Build()

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "[filesystem:error] write failed: permission denied")
	})
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NotFoundError("content root missing").Build(), IsNotFound},
		{"already exists", AlreadyExistsError("file exists").Build(), IsAlreadyExists},
		{"date parse", DateParseError("bad date").Build(), IsDateParse},
		{"asset copy", AssetCopyError("static missing").Build(), IsAssetCopy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("generate: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.True(t, IsClassified(wrapped))
			assert.False(t, tt.check(stderrors.New("plain")))
		})
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
		{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityFatal},
		{"AlreadyExistsError", AlreadyExistsError("test"), CategoryAlreadyExists, SeverityFatal},
		{"DateParseError", DateParseError("test"), CategoryDateParse, SeverityFatal},
		{"AssetCopyError", AssetCopyError("test"), CategoryAssetCopy, SeverityFatal},
		{"BuildError", BuildError("test"), CategoryBuild, SeverityFatal},
		{"RenderError", RenderError("test"), CategoryRender, SeverityFatal},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, tt.severity, err.Severity())
		})
	}
}

func TestErrorContext(t *testing.T) {
	ctx1 := make(ErrorContext)
	ctx1 = ctx1.Set("key1", "value1")
	ctx1 = ctx1.Set("shared", "original")

	ctx2 := make(ErrorContext)
	ctx2 = ctx2.Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	value1, _ := merged.GetString("key1")
	shared, _ := merged.GetString("shared")
	assert.Equal(t, "value1", value1)
	assert.Equal(t, "overridden", shared)

	_, exists := merged.Get("nonexistent")
	assert.False(t, exists)
}

func TestLogAttrsStableOrder(t *testing.T) {
	err := NotFoundError("missing").
		WithContext("path", "content").
		WithContext("kind", "root").
		Build()

	attrs := err.LogAttrs()
	require.Len(t, attrs, 3)
	assert.Equal(t, "category", attrs[0].Key)
	assert.Equal(t, "kind", attrs[1].Key)
	assert.Equal(t, "path", attrs[2].Key)
}

func TestClassifiedErrorWithContextCopies(t *testing.T) {
	original := RenderError("layout failed").WithContext("template", "main.html").Build()

	annotated := original.WithContext("path", "content/about.md")

	p, ok := annotated.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "content/about.md", p)
	tpl, _ := annotated.Context().GetString("template")
	assert.Equal(t, "main.html", tpl)

	_, leaked := original.Context().Get("path")
	assert.False(t, leaked)
	assert.Equal(t, original.Category(), annotated.Category())
}
