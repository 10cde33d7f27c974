// Package forwarder turns newly created in-app notification records into push
// messages addressed to the owning user's topic.
//
// Each invocation is independent: the record is read from the trigger event,
// one message is built, it is sent once and the outcome is returned to the
// host. Retries are left to the hosting platform.
package forwarder
