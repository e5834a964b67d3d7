package sceneio

// path names a node in the scene JSON schema, deduced from parent path
// + container type + last object key, exactly as the reference's
// SceneJsonObserver::Path does via deduceArrayPath/deduceObjectPath.
type path int

const (
	pathUnknown path = iota
	pathRoot
	pathDrumBanks
	pathDrumBank
	pathDrumPatternSet
	pathDrumVoice
	pathDrumHitArray
	pathDrumAccentArray
	pathDrumAutomation
	pathDrumAutomationLane
	pathDrumAutomationNodes
	pathDrumAutomationNode
	pathDrumAutomationOptions
	pathSynthABanks
	pathSynthABank
	pathSynthBBanks
	pathSynthBBank
	pathSynthPattern
	pathSynthSteps
	pathSynthStep
	pathSynthAutomation
	pathSynthAutomationLane
	pathSynthAutomationNodes
	pathSynthAutomationNode
	pathSynthAutomationOptions
	pathSongs
	pathSong
	pathSongPositions
	pathSongPosition
	pathState
	pathMute
	pathMuteDrums
	pathMuteSynth
	pathSynthDistortion
	pathSynthDelay
	pathSynthParams
	pathSynthParam
	pathSynthPatternIndex
	pathSynthBankIndex
	pathTrackVolumes
	pathCustomPhrases
	pathTape
	pathFeel
	pathGenre
	pathDrumFX
	pathVocal
	pathLed
	pathSamplerPads
	pathSamplerPad
	pathOpaqueObject // unrecognized state objects: ignored, not interpreted
	pathOpaqueArray
)

// containerType distinguishes object vs array stack frames, as the
// reference's Context::Type does.
type containerType int

const (
	containerObject containerType = iota
	containerArray
)

type frame struct {
	kind  containerType
	path  path
	index int
}

const maxStackDepth = 16
