/*
Package tracker contains the playback engine that steps through a Collatz
trajectory and triggers samples.

The Player owns all playback state and processes messages on a single
goroutine (Player.Run). The Model is the user interface side: it validates
input and sends messages to the player through a Broker, and reads back the
status the player reports. Timers (Scheduler) and finished voices (VoicePool)
never touch the state directly; they post messages into the same loop, so a
tick that was already in flight when playback stopped is recognized as stale
and dropped.

For offline rendering and tests, NewSyncPlayer together with a VirtualClock
runs the same engine deterministically without goroutines.
*/
package tracker
