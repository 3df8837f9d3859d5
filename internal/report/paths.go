package report

import (
	"fmt"
	"path/filepath"
	"strings"
)

// sanitizeChars are replaced with "_" when composing a path component
// from free-form text (an input file's base name, an experiment
// suffix), matching original_source/src/main.cpp's SanitizePathPart.
const sanitizeChars = " :*?\"<>|\\/"

// SanitizePathPart replaces every filesystem-hostile character with an
// underscore so a path part built from user-controlled text (an input
// file name, an algorithm label) is always a valid single path
// component.
func SanitizePathPart(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(sanitizeChars, r) {
			return '_'
		}
		return r
	}, s)
}

// ExperimentPaths holds the fully composed output paths for one
// (algorithm, mode, k) experiment.
type ExperimentPaths struct {
	Dir          string
	Predictions  string
	Neighbors    string
	Statistics   string
}

// InputBase strips the directory and extension from an input path,
// e.g. "data/iris.arff" -> "iris".
func InputBase(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ComposePaths builds the folder-per-experiment layout spec.md §6 and
// original_source/src/main.cpp describe:
//
//	<outdir>/<inputBase>/EXP_<ALGO>_<inputBase>_D<D>_R<R>_k<k>_<SVDM>_<mode>/
//	  OUT_<suffix>.csv
//	  kNN_<suffix>.csv
//	  STAT_<suffix>.txt
func ComposePaths(outDir, inputPath, algo, mode, svdmLabel string, numAttrs, numRows, kEff int) ExperimentPaths {
	inputBase := InputBase(inputPath)
	suffix := fmt.Sprintf("%s_%s_D%d_R%d_k%d_%s_%s", algo, inputBase, numAttrs, numRows, kEff, svdmLabel, mode)

	baseFolder := SanitizePathPart(inputBase)
	expFolder := "EXP_" + SanitizePathPart(suffix)
	dir := filepath.Join(outDir, baseFolder, expFolder)

	return ExperimentPaths{
		Dir:         dir,
		Predictions: filepath.Join(dir, "OUT_"+suffix+".csv"),
		Neighbors:   filepath.Join(dir, "kNN_"+suffix+".csv"),
		Statistics:  filepath.Join(dir, "STAT_"+suffix+".txt"),
	}
}
