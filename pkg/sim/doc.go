// Package sim is a deterministic, in-memory simulation harness for
// event-driven chat bots. Synthetic users send messages, join and leave
// chats, click inline buttons, react to messages, and issue inline queries;
// every action becomes a well-formed update delivered synchronously to the
// bot-under-test, and every outbound call the bot makes is intercepted,
// logged, and answered from an override table or a default responder.
//
// No network, no clock dependence beyond the injectable time source, no
// background goroutines: a scenario runs start to finish on the caller's
// goroutine, and the same seed always produces the same identifiers.
package sim
