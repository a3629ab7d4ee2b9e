package errors

import "fmt"

// ElementNotFound reports a missing named element: a template, named stage,
// named selector, env key or file.
func ElementNotFound(name string) *PipelineError {
	return New(CategoryElementNotFound, SeverityError, fmt.Sprintf("element not found: %s", name))
}

// ValueParsing reports a configuration or metadata shape mismatch, a bad
// regex or a bad date literal.
func ValueParsing(message string) *PipelineError {
	return New(CategoryValueParsing, SeverityError, message)
}

// WrapValueParsing wraps a decoder error as a value-parsing failure.
func WrapValueParsing(err error, message string) *PipelineError {
	return Wrap(err, CategoryValueParsing, message)
}

// MetadataTreeError reports an invalid metadata tree operation.
func MetadataTreeError(message string) *PipelineError {
	return New(CategoryMetadataTree, SeverityError, message)
}

// AuthorMerge reports an attempt to merge two authors with different names.
func AuthorMerge(message string) *PipelineError {
	return New(CategoryAuthorMerge, SeverityError, message)
}

// WrapIO wraps a filesystem or subprocess error.
func WrapIO(err error, message string) *PipelineError {
	return Wrap(err, CategoryIO, message)
}

// WrapRender wraps a template render failure bubbled up from the engine.
func WrapRender(err error, message string) *PipelineError {
	return Wrap(err, CategoryRender, message)
}

// WrapGit wraps a git repository failure.
func WrapGit(err error, message string) *PipelineError {
	return Wrap(err, CategoryGit, message)
}
