// Command server runs the billing control plane: the HTTP surface, the gateway webhook
// ingestion route, the queue-worker consumers, and the expiry sweeper, all wired together by
// the Fx dependency graph in app.NewFxApp.
package main

import (
	"github.com/northlane/billingctl/app"
)

func main() {
	app.NewFxApp().Run()
}
