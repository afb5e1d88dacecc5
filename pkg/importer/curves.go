package importer

import "fmt"

// buildTempoCurve derives a tempo automation curve from consecutive
// (beat, seconds) samples of the sequence time map. Any pre-existing
// tempo curve is cleared first.
func (r *run) buildTempoCurve(tm TimeMap) {
	pat := r.sink.TempoAutomation()
	if pat == nil {
		return
	}
	pat.Clear()

	pts := tm.Points
	for i := 0; i+1 < len(pts); i++ {
		dt := pts[i+1].Seconds - pts[i].Seconds
		if dt <= 0 {
			// A zero-length interval has no defined tempo.
			r.warnf(WarnDegenerateTempo,
				"time map interval at beat %g has zero duration", pts[i].Beat)
			continue
		}
		bpm := (pts[i+1].Beat - pts[i].Beat) / dt * 60.0
		pat.PutValue(r.tb.Ticks(pts[i].Beat), bpm)
	}
	if tm.HasLastTempo && len(pts) > 0 {
		last := pts[len(pts)-1]
		pat.PutValue(r.tb.Ticks(last.Beat), tm.LastTempo*60.0)
	}
}

// buildTimeSigCurves writes numerator and denominator automation curves
// for every time-signature change. Pattern lengths are recomputed at the
// end; point insertion alone leaves them at the minimal one-unit length.
func (r *run) buildTimeSigCurves(sigs []TimeSig) {
	numParam, denParam := r.sink.TimeSignatureParams()

	numTrack := r.createAutomationTrack("MIDI Time Signature Numerator")
	numPat := numTrack.CreatePattern(0)
	numPat.BindParameter(numParam)

	denTrack := r.createAutomationTrack("MIDI Time Signature Denominator")
	denPat := denTrack.CreatePattern(0)
	denPat.BindParameter(denParam)

	for _, sig := range sigs {
		tick := r.tb.Ticks(sig.Beat)
		numPat.PutValue(tick, float64(sig.Numerator))
		denPat.PutValue(tick, float64(sig.Denominator))
	}
	numPat.UpdateLength()
	denPat.UpdateLength()
}

func (r *run) warnf(code WarningCode, format string, args ...any) {
	r.res.Warnings = append(r.res.Warnings, Warning{
		Code:   code,
		Detail: fmt.Sprintf(format, args...),
	})
}
