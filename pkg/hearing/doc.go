// ABOUTME: Package hearing implements the adaptive hearing test modes
// ABOUTME: A pure controller, result evaluation, timers and an effect runner
// Package hearing drives the four hearing test modes: manual threshold,
// ascending staircase, age banding and stereo localization.
//
// The Controller is a pure transition function. Step applies an Event to a
// Session and returns the Effects the caller must perform (play a tone,
// stop it, schedule or cancel timers). It never touches audio or clocks
// itself, which keeps every mode testable step by step.
//
// Every step change bumps the session generation. Timers and playback
// completions carry a Token naming the session and generation that issued
// them, so a continuation that fires after the user has already responded
// is ignored instead of reviving a superseded step.
//
// The Runner executes effects against a playback.Session, feeds timer and
// playback completions back into the controller and publishes a Snapshot
// after every transition:
//
//	ctrl := hearing.NewController(hearing.DefaultConfig())
//	runner := hearing.NewRunner(ctrl, playback.NewSession(out))
//	runner.Subscribe(func(s hearing.Snapshot) { log.Printf("%s: %s", s.Mode, s.State) })
//	go runner.Run(ctx)
//	runner.Send(hearing.Start{Mode: hearing.ModeManual})
package hearing
