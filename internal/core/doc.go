// Package core holds the domain records exchanged with the remote data
// processing API and the pure projections the wizard renders from them.
//
// This package has no UI or transport dependencies. The terminal client, the
// HTTP collaborators and the workflow controller all share these types.
//
// # Records
//
//   - [AnalysisResult]: quality profile of an uploaded file (rows, columns,
//     missing values per column, duplicate rows). Immutable once received.
//   - [ProcessingOptions]: the cleaning choices a user submits. Each field is
//     a closed enum checked by [ProcessingOptions.Validate].
//   - [ProcessingStats] and [ProcessingResult]: before/after statistics and
//     the handle of the processed output file.
//
// # Projections
//
// [TotalMissing], [TotalOutliers], [MissingItems], [OutlierItems],
// [NormalizationLabel] and [TotalProblems] are total functions: they never
// fail and treat absent input as empty.
//
// # Error Handling
//
// Technical errors are mapped to user-facing text with [MapError] and
// [UserText]. Each category has a code for support reference:
//
//   - NET001-NET003: connectivity (refused, DNS, timeout)
//   - AUTH001-AUTH002: credential rejected or insufficient
//   - FILE001-FILE003: upload rejected by the remote service
//   - OPT001: invalid processing options
//   - RATE001: throttled by the API or the proxy
//   - ERR000: fallback
package core
