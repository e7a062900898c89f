// Package deck fills a presentation template: date labels and table values
// are substituted into text placeholders and percentage bars are resized
// from the same table values. The template file is read-only; the finished
// deck is written as a new package.
package deck

import (
	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// Fill renders the template at templatePath into outputPath. The passes run
// in a fixed order: bar geometry is captured from the pristine template,
// then date tags, then value tags, and finally the bar updates, which
// re-locate each bar by name in the rewritten slides.
func Fill(templatePath, outputPath string, tables []model.Table, labels map[string]string) error {
	pkg, err := OpenTemplate(templatePath)
	if err != nil {
		return err
	}

	slides, err := pkg.Slides()
	if err != nil {
		return err
	}

	bars, err := captureBars(pkg, slides)
	if err != nil {
		return err
	}

	index := NewTableIndex(tables)

	for _, slide := range slides {
		data, err := pkg.ReadPart(slide.Path)
		if err != nil {
			return err
		}

		xml := string(data)
		xml = substituteDateTags(xml, labels)
		xml = substituteValueTags(xml, slide.Path, index)
		if xml != string(data) {
			pkg.WritePart(slide.Path, []byte(xml))
		}
	}

	if err := applyBars(pkg, bars, index); err != nil {
		return err
	}

	log.Info().Int("slides", len(slides)).Int("bars", len(bars)).
		Str("output", outputPath).Msg("template filled")
	return pkg.SaveFile(outputPath)
}
