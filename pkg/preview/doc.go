// Package preview implements the debounced preview fetch: qualifying input
// events on a field schedule a single request for rendered preview markup
// once the field has been quiet for a while.
//
// Each field moves through Idle, Pending and InFlight. A new qualifying
// event re-arms the pending timer. When the timer fires the field's live
// value is compared with the value captured at scheduling time and the
// fetch is abandoned if they differ. Transport failures only hide the
// progress indicator.
package preview
