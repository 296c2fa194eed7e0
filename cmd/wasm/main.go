//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"bayes/internal/adapter/analyzer"
	"bayes/internal/adapter/classifier"
	"bayes/internal/domain"
	"bayes/internal/port"
)

var (
	tokenizer *analyzer.Tokenizer
	model     *classifier.Model
)

func init() {
	tokenizer = analyzer.NewTokenizer()
	model = classifier.New(tokenizer)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("bayesLearn", js.FuncOf(learn))
	js.Global().Set("bayesCategorize", js.FuncOf(categorize))
	js.Global().Set("bayesProbabilities", js.FuncOf(probabilities))
	js.Global().Set("bayesExport", js.FuncOf(exportModel))
	js.Global().Set("bayesImport", js.FuncOf(importModel))
	js.Global().Set("bayesReset", js.FuncOf(resetModel))
	js.Global().Set("bayesInfo", js.FuncOf(info))

	<-c
}

// learn(text, category, [isHTML])
func learn(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: bayesLearn(text, category, [isHTML])")
	}

	model.Learn(input(args[0].String(), len(args) > 2 && args[2].Truthy()), args[1].String())

	return makeResult(map[string]interface{}{
		"success":        true,
		"totalDocuments": model.TotalDocuments(),
		"vocabularySize": model.VocabularySize(),
	})
}

// categorize(text, [isHTML])
func categorize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: bayesCategorize(text, [isHTML])")
	}

	category, found := model.Categorize(input(args[0].String(), len(args) > 1 && args[1].Truthy()))
	var result interface{}
	if found {
		result = category
	}
	return makeResult(map[string]interface{}{
		"category": result,
	})
}

// probabilities(text, [format], [isHTML])
func probabilities(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: bayesProbabilities(text, [format], [isHTML])")
	}

	format := domain.FormatLog
	if len(args) > 1 && args[1].Type() == js.TypeString {
		var err error
		format, err = domain.ParseProbabilityFormat(args[1].String())
		if err != nil {
			return makeError(err.Error())
		}
	}

	scores := model.Probabilities(input(args[0].String(), len(args) > 2 && args[2].Truthy()), format)
	if scores == nil {
		scores = map[string]float64{}
	}
	return makeResult(map[string]interface{}{
		"format": format.String(),
		"scores": scores,
	})
}

func exportModel(this js.Value, args []js.Value) interface{} {
	state, err := model.ToJSON()
	if err != nil {
		return makeError("export failed: " + err.Error())
	}
	return state
}

// importModel(json) replaces the model. A failed import leaves it empty.
func importModel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: bayesImport(json)")
	}
	if err := model.FromJSON([]byte(args[0].String())); err != nil {
		return makeError("import failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"success":    true,
		"categories": model.Categories(),
	})
}

func resetModel(this js.Value, args []js.Value) interface{} {
	model.Reset()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func info(this js.Value, args []js.Value) interface{} {
	result, _ := json.Marshal(model.Info())
	return string(result)
}

func input(text string, html bool) port.Input {
	if html {
		return port.Object(analyzer.NewHTMLDocument(text))
	}
	return port.Text(text)
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
