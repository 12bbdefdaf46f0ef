package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"whisper-wpm-eval/internal/config"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/objectstore"
	"whisper-wpm-eval/internal/recorder"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file (defaults apply when omitted)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	datasetStore := dataset.NewStore(cfg.Dataset.Dir, cfg.Dataset.MetadataFile, cfg.Dataset.AudioDir)
	samples := dataset.NewSampleLibrary(cfg.Dataset.SamplesDir)

	var uploader recorder.Uploader
	if cfg.Recorder.UploadToObjectStore && cfg.ObjectStore.Enabled {
		store, err := objectstore.NewMinioStore(cfg.ObjectStore)
		if err != nil {
			log.Fatalf("Failed to initialize object store: %v", err)
		}
		uploader = store
	}

	source, err := recorder.NewMalgoSource(cfg.Recorder.SampleRate, cfg.Recorder.Channels)
	if err != nil {
		log.Fatalf("Failed to initialize audio backend: %v", err)
	}
	defer source.Close()

	micName := selectMicrophone(source, cfg.Recorder.PreferredMic)

	saver := &recorder.Saver{Dataset: datasetStore, Uploader: uploader}
	stdin := bufio.NewScanner(os.Stdin)

	for {
		sampleFile, sampleText, ok := selectSample(stdin, samples)
		if !ok {
			return
		}

		sess := recorder.NewSession(source, cfg.Recorder.SampleRate, cfg.Recorder.Channels)
		fmt.Println("\nRead the sample aloud. Commands: start, pause, resume, stop, save, discard, quit")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Println(sampleText)
		fmt.Println(strings.Repeat("-", 60))

		if !runTake(stdin, sess, saver, recorder.SaveRequest{
			Sample:     strings.TrimSuffix(sampleFile, ".txt"),
			SampleFile: sampleFile,
			SampleText: sampleText,
			Microphone: micName,
		}) {
			return
		}
	}
}

// selectMicrophone lists capture devices, preselects the preferred one
// when present, and lets the operator override the choice.
func selectMicrophone(source *recorder.MalgoSource, preferred string) string {
	devices, err := source.Devices()
	if err != nil {
		log.Printf("WARNING: failed to list capture devices, using default: %v", err)
		return preferred
	}

	fmt.Println("Capture devices:")
	for i, d := range devices {
		fmt.Printf("  [%d] %s\n", i, d.Name())
	}

	idx := recorder.PickPreferred(devices, preferred)
	if idx >= 0 {
		fmt.Printf("Using preferred microphone: %s\n", devices[idx].Name())
		source.UseDevice(devices[idx])
		return devices[idx].Name()
	}
	if len(devices) > 0 {
		fmt.Printf("Preferred microphone %q not found, using default device.\n", preferred)
	}
	return preferred
}

// selectSample shows the sample library and reads a choice. Returns
// ok=false when the operator quits.
func selectSample(stdin *bufio.Scanner, samples *dataset.SampleLibrary) (string, string, bool) {
	files, err := samples.List()
	if err != nil || len(files) == 0 {
		log.Fatalf("No sample texts found: %v", err)
	}

	fmt.Println("\nSamples:")
	for i, f := range files {
		fmt.Printf("  [%d] %s\n", i, f)
	}
	fmt.Print("Select sample (or 'quit'): ")

	for stdin.Scan() {
		input := strings.TrimSpace(stdin.Text())
		if input == "quit" || input == "q" {
			return "", "", false
		}
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 0 || idx >= len(files) {
			fmt.Print("Invalid selection, try again: ")
			continue
		}
		text, err := samples.GroundTruth(files[idx])
		if err != nil {
			log.Fatalf("Failed to read sample %s: %v", files[idx], err)
		}
		return files[idx], text, true
	}
	return "", "", false
}

// runTake drives one recording through its command loop. Returns false
// when the operator quits the program.
func runTake(stdin *bufio.Scanner, sess *recorder.Session, saver *recorder.Saver, req recorder.SaveRequest) bool {
	fmt.Printf("[%s] > ", sess.State())
	for stdin.Scan() {
		var err error
		switch strings.TrimSpace(stdin.Text()) {
		case "start":
			err = sess.Start()
		case "pause":
			err = sess.Pause()
		case "resume":
			err = sess.Resume()
		case "stop":
			err = sess.Stop()
			if err == nil {
				fmt.Printf("Captured %.1f seconds.\n", sess.Duration())
			}
		case "discard":
			err = sess.Discard()
			if err == nil {
				fmt.Println("Take discarded.")
				return true
			}
		case "save":
			req.Pace = prompt(stdin, "Pace (slow/normal/fast)", "normal")
			req.MicDistance = prompt(stdin, "Mic distance (close/medium/far)", "close")
			req.BackgroundNoise = prompt(stdin, "Background noise (quiet/fan/convo_tv/...)", "quiet")
			req.Notes = prompt(stdin, "Notes (optional)", "")

			var rec dataset.RecordingMetadata
			rec, err = saver.Save(sess, req)
			if err == nil {
				fmt.Printf("Saved recording %s (%s)\n", rec.ID, rec.Audio)
				return true
			}
		case "quit", "q":
			if sess.State() == recorder.StateRecording || sess.State() == recorder.StatePaused {
				_ = sess.Stop()
			}
			return false
		case "":
		default:
			fmt.Println("Commands: start, pause, resume, stop, save, discard, quit")
		}
		if err != nil {
			fmt.Printf("ERROR: %v\n", err)
		}
		fmt.Printf("[%s] > ", sess.State())
	}
	return false
}

func prompt(stdin *bufio.Scanner, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !stdin.Scan() {
		return fallback
	}
	input := strings.TrimSpace(stdin.Text())
	if input == "" {
		return fallback
	}
	return input
}
