// controlpanel binds VM and service records to the widgets of a control panel frontend,
// and carries the user's intents back out as typed signals.
//
// The package sits between a store of records (usually fed by an external controller
// over a Connection) and whatever toolkit draws the widgets. It has no opinion on layout
// or rendering; a widget is anything that accepts property writes.
//
// Records
//
// A Record is an externally-owned VM or service with a fixed set of fields: name,
// display-name, status, details, trust-level and is-vm. Records are read and subscribed
// to, never written, by the panels in this package. ServiceObject is the observable
// implementation used by ServiceModel:
//
//  obj := controlpanel.NewServiceObject(controlpanel.Service{
//      Name:        "net-vm",
//      DisplayName: "Network VM",
//      Status:      controlpanel.StatusRunning,
//      IsVM:        true,
//  })
//
// Bindings
//
// A Binding is a live link from one record field to one widget property, with a
// transform from the catalog applied on every write. A panel's bindings are created in a
// single Bind pass and all released on Unbind. Bind always unbinds first, so a panel that
// is recycled for another row (or rebound to the same one) never has an old record
// writing into its widgets:
//
//  panel := controlpanel.NewServicePanel()
//  panel.Bind(obj)
//  panel.Slot(controlpanel.SlotStatusLabel).Text() // "Running"
//
// Signals
//
// Panels never act on user gestures themselves. A start, shutdown or pause press emits
// "vm-control-action" with the action and the target's names; audio controls emit
// "vm-mic-changed", "vm-speaker-changed", "vm-mic-volume-changed" and
// "vm-speaker-volume-changed". Handlers are connected by signal name, or through the
// typed helpers on ServicePanel. Forward connects a panel to one or more ActionSinks,
// such as the controller Connection.
//
// Threading
//
// Everything here runs on one logical thread: the frontend's event loop. Field change
// notifications, binds, transforms and emits run to completion synchronously, so there
// are no locks. Connection reads on its own goroutine but only touches records and
// models inside Process, which the frontend calls from its loop.
package controlpanel
