// Package preflight provides readiness checks for the filesystem paths a
// corpus build depends on.
//
// The build runs RunAll before touching the target; any failed check aborts
// the run so that a half-written corpus is never produced because of a
// missing source, an unwritable target, or a target that already holds the
// corpus. The CLI inspect and config show commands reuse the individual
// checks to report status.
package preflight
