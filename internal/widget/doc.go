// Package widget implements the headless form inputs used by the energy entry
// form: a shared value synchronisation contract, segmented editors for dates
// and decimal numbers, a filterable selector, and the small boolean, button
// and text inputs.
//
// Widgets never render and never fail. Hosts deliver discrete input events
// (keys, raw edits, pointer actions, focus changes, external value writes),
// read the projection accessors to draw, and subscribe to Edit and Commit
// notifications through a Handler. Every call must come from the host's event
// loop; the only deferred work goes through a Scheduler supplied by the host.
package widget
