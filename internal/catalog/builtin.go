package catalog

const (
	TypeSequentialContainer = "NINA.Sequencer.Container.SequentialContainer, NINA.Sequencer"
	TypeParallelContainer   = "NINA.Sequencer.Container.ParallelContainer, NINA.Sequencer"
	TypeDeepSkyContainer    = "NINA.Sequencer.Container.DeepSkyObjectContainer, NINA.Sequencer"
	TypeSmartExposure       = "NINA.Sequencer.SequenceItem.Imaging.SmartExposure, NINA.Sequencer"
	TypeTakeExposure        = "NINA.Sequencer.SequenceItem.Imaging.TakeExposure, NINA.Sequencer"
	TypeCoolCamera          = "NINA.Sequencer.SequenceItem.Camera.CoolCamera, NINA.Sequencer"
	TypeWarmCamera          = "NINA.Sequencer.SequenceItem.Camera.WarmCamera, NINA.Sequencer"
	TypeSlewAndCenter       = "NINA.Sequencer.SequenceItem.Platesolving.Center, NINA.Sequencer"
	TypeRunAutofocus        = "NINA.Sequencer.SequenceItem.Autofocus.RunAutofocus, NINA.Sequencer"
	TypeSwitchFilter        = "NINA.Sequencer.SequenceItem.FilterWheel.SwitchFilter, NINA.Sequencer"
	TypeStartGuiding        = "NINA.Sequencer.SequenceItem.Guider.StartGuiding, NINA.Sequencer"
	TypeStopGuiding         = "NINA.Sequencer.SequenceItem.Guider.StopGuiding, NINA.Sequencer"
	TypeParkScope           = "NINA.Sequencer.SequenceItem.Telescope.ParkScope, NINA.Sequencer"
	TypeUnparkScope         = "NINA.Sequencer.SequenceItem.Telescope.UnparkScope, NINA.Sequencer"
	TypeWaitForTime         = "NINA.Sequencer.SequenceItem.Utility.WaitForTime, NINA.Sequencer"
	TypeAnnotation          = "NINA.Sequencer.SequenceItem.Utility.Annotation, NINA.Sequencer"

	TypeLoopCondition      = "NINA.Sequencer.Conditions.LoopCondition, NINA.Sequencer"
	TypeTimeCondition      = "NINA.Sequencer.Conditions.TimeCondition, NINA.Sequencer"
	TypeAltitudeCondition  = "NINA.Sequencer.Conditions.AltitudeCondition, NINA.Sequencer"
	TypeSafetyMonitorLoop  = "NINA.Sequencer.Conditions.SafetyMonitorCondition, NINA.Sequencer"
	TypeMeridianFlip       = "NINA.Sequencer.Trigger.MeridianFlip.MeridianFlipTrigger, NINA.Sequencer"
	TypeAutofocusAfterExp  = "NINA.Sequencer.Trigger.Autofocus.AutofocusAfterExposures, NINA.Sequencer"
	TypeAutofocusAfterFilt = "NINA.Sequencer.Trigger.Autofocus.AutofocusAfterFilterChange, NINA.Sequencer"
	TypeDitherAfterExp     = "NINA.Sequencer.Trigger.Guider.DitherAfterExposures, NINA.Sequencer"
	TypeCenterAfterDrift   = "NINA.Sequencer.Trigger.Platesolving.CenterAfterDriftTrigger, NINA.Sequencer"
	TypeRestoreGuiding     = "NINA.Sequencer.Trigger.Guider.RestoreGuiding, NINA.Sequencer"
)

var builtinDefinitions = []Definition{
	// Containers
	{Type: TypeSequentialContainer, Kind: KindItem, Name: "Sequential Container", Category: "Container", Container: true,
		Description: "Runs its instructions one after another"},
	{Type: TypeParallelContainer, Kind: KindItem, Name: "Parallel Container", Category: "Container", Container: true,
		Description: "Runs its instructions at the same time"},
	{Type: TypeDeepSkyContainer, Kind: KindItem, Name: "Deep Sky Object Container", Category: "Container", Container: true,
		Defaults: map[string]any{
			"target": map[string]any{
				"targetName":    "Target",
				"positionAngle": 0.0,
				"coordinates": map[string]any{
					"raHours": 0.0, "raMinutes": 0.0, "raSeconds": 0.0,
					"decDegrees": 0.0, "decMinutes": 0.0, "decSeconds": 0.0,
					"negativeDec": false,
				},
			},
		}},
	{Type: TypeSmartExposure, Kind: KindItem, Name: "Smart Exposure", Category: "Imaging", Container: true,
		Defaults: map[string]any{
			"exposureTime": 60.0,
			"imageType":    "LIGHT",
			"gain":         -1.0,
			"offset":       -1.0,
			"binning":      map[string]any{"x": 1.0, "y": 1.0},
			"filter":       nil,
			"iterations":   10.0,
			"ditherEvery":  1.0,
		}},

	// Instructions
	{Type: TypeTakeExposure, Kind: KindItem, Name: "Take Exposure", Category: "Imaging",
		Defaults: map[string]any{
			"exposureTime":  60.0,
			"imageType":     "LIGHT",
			"gain":          -1.0,
			"offset":        -1.0,
			"binning":       map[string]any{"x": 1.0, "y": 1.0},
			"exposureCount": 0.0,
		}},
	{Type: TypeCoolCamera, Kind: KindItem, Name: "Cool Camera", Category: "Camera",
		Defaults: map[string]any{"temperature": -10.0, "duration": 10.0}},
	{Type: TypeWarmCamera, Kind: KindItem, Name: "Warm Camera", Category: "Camera",
		Defaults: map[string]any{"duration": 10.0}},
	{Type: TypeSlewAndCenter, Kind: KindItem, Name: "Slew and Center", Category: "Platesolving",
		Defaults: map[string]any{"inherited": true}},
	{Type: TypeRunAutofocus, Kind: KindItem, Name: "Run Autofocus", Category: "Autofocus"},
	{Type: TypeSwitchFilter, Kind: KindItem, Name: "Switch Filter", Category: "Filter Wheel",
		Defaults: map[string]any{"filter": nil}},
	{Type: TypeStartGuiding, Kind: KindItem, Name: "Start Guiding", Category: "Guider",
		Defaults: map[string]any{"forceCalibration": false}},
	{Type: TypeStopGuiding, Kind: KindItem, Name: "Stop Guiding", Category: "Guider"},
	{Type: TypeParkScope, Kind: KindItem, Name: "Park Scope", Category: "Telescope"},
	{Type: TypeUnparkScope, Kind: KindItem, Name: "Unpark Scope", Category: "Telescope"},
	{Type: TypeWaitForTime, Kind: KindItem, Name: "Wait for Time", Category: "Utility",
		Defaults: map[string]any{"hours": 0.0, "minutes": 0.0, "seconds": 0.0, "minutesOffset": 0.0}},
	{Type: TypeAnnotation, Kind: KindItem, Name: "Annotation", Category: "Utility",
		Defaults: map[string]any{"text": ""}},

	// Conditions
	{Type: TypeLoopCondition, Kind: KindCondition, Name: "Loop For Iterations", Category: "Loop",
		Defaults: map[string]any{"iterations": 1.0, "completedIterations": 0.0}},
	{Type: TypeTimeCondition, Kind: KindCondition, Name: "Loop Until Time", Category: "Loop",
		Defaults: map[string]any{"hours": 0.0, "minutes": 0.0, "seconds": 0.0, "minutesOffset": 0.0}},
	{Type: TypeAltitudeCondition, Kind: KindCondition, Name: "Loop Until Altitude", Category: "Loop",
		Defaults: map[string]any{"altitude": 30.0, "comparator": "<"}},
	{Type: TypeSafetyMonitorLoop, Kind: KindCondition, Name: "Loop While Safe", Category: "Safety"},

	// Triggers
	{Type: TypeMeridianFlip, Kind: KindTrigger, Name: "Meridian Flip", Category: "Telescope",
		Defaults: map[string]any{"minutesAfterMeridian": 5.0, "pauseTimeBeforeMeridian": 0.0, "useSideOfPier": true}},
	{Type: TypeAutofocusAfterExp, Kind: KindTrigger, Name: "Autofocus After Exposures", Category: "Autofocus",
		Defaults: map[string]any{"afterExposures": 10.0}},
	{Type: TypeAutofocusAfterFilt, Kind: KindTrigger, Name: "Autofocus After Filter Change", Category: "Autofocus"},
	{Type: TypeDitherAfterExp, Kind: KindTrigger, Name: "Dither After Exposures", Category: "Guider",
		Defaults: map[string]any{"afterExposures": 1.0}},
	{Type: TypeCenterAfterDrift, Kind: KindTrigger, Name: "Center After Drift", Category: "Platesolving",
		Defaults: map[string]any{"distanceArcMinutes": 10.0, "afterExposures": 1.0}},
	{Type: TypeRestoreGuiding, Kind: KindTrigger, Name: "Restore Guiding", Category: "Guider"},
}
