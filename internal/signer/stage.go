package signer

// Stage is a step of a signing run.
type Stage int

const (
	StageStart Stage = iota
	StageForceClean
	StageValidated
	StageWorkspaceReady
	StageDescriptorInjected
	StageManifestBuilt
	StageSigned
	StagePacked
	StageCleanedUp
	StageDone
	StageFailed
)

//nolint:gochecknoglobals // Read-only lookup table.
var stageNames = [...]string{
	StageStart:              "start",
	StageForceClean:         "force-clean",
	StageValidated:          "validated",
	StageWorkspaceReady:     "workspace-ready",
	StageDescriptorInjected: "descriptor-injected",
	StageManifestBuilt:      "manifest-built",
	StageSigned:             "signed",
	StagePacked:             "packed",
	StageCleanedUp:          "cleaned-up",
	StageDone:               "done",
	StageFailed:             "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}
