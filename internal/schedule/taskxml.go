package schedule

import (
	"encoding/xml"
	"fmt"
	"time"
)

const taskSchemaNS = "http://schemas.microsoft.com/windows/2004/02/mit/task"

// Task Scheduler boundary instants are local time without offset
const startBoundaryLayout = "2006-01-02T15:04:05"

// taskDef models the subset of the Task Scheduler XML schema the agent
// registers: one trigger, elevated interactive principal, and
// start-when-available so a sleeping machine catches up on wake.
type taskDef struct {
	XMLName          xml.Name         `xml:"Task"`
	Version          string           `xml:"version,attr"`
	Xmlns            string           `xml:"xmlns,attr"`
	RegistrationInfo registrationInfo `xml:"RegistrationInfo"`
	Triggers         triggers         `xml:"Triggers"`
	Principals       principals       `xml:"Principals"`
	Settings         taskSettings     `xml:"Settings"`
	Actions          actions          `xml:"Actions"`
}

type registrationInfo struct {
	Description string `xml:"Description"`
}

type triggers struct {
	TimeTrigger  *timeTrigger  `xml:"TimeTrigger,omitempty"`
	LogonTrigger *logonTrigger `xml:"LogonTrigger,omitempty"`
}

type timeTrigger struct {
	StartBoundary string `xml:"StartBoundary"`
	Enabled       bool   `xml:"Enabled"`
}

type logonTrigger struct {
	Enabled bool `xml:"Enabled"`
}

type principals struct {
	Principal principal `xml:"Principal"`
}

type principal struct {
	ID        string `xml:"id,attr"`
	LogonType string `xml:"LogonType"`
	RunLevel  string `xml:"RunLevel"`
}

type taskSettings struct {
	MultipleInstancesPolicy    string `xml:"MultipleInstancesPolicy"`
	DisallowStartIfOnBatteries bool   `xml:"DisallowStartIfOnBatteries"`
	StopIfGoingOnBatteries     bool   `xml:"StopIfGoingOnBatteries"`
	StartWhenAvailable         bool   `xml:"StartWhenAvailable"`
	Enabled                    bool   `xml:"Enabled"`
}

type actions struct {
	Context string     `xml:"Context,attr"`
	Exec    execAction `xml:"Exec"`
}

type execAction struct {
	Command string `xml:"Command"`
}

func newTaskDef(command, description string) taskDef {
	return taskDef{
		Version:          "1.2",
		Xmlns:            taskSchemaNS,
		RegistrationInfo: registrationInfo{Description: description},
		Principals: principals{
			Principal: principal{
				ID:        "Author",
				LogonType: "InteractiveToken",
				RunLevel:  "HighestAvailable",
			},
		},
		Settings: taskSettings{
			MultipleInstancesPolicy:    "IgnoreNew",
			DisallowStartIfOnBatteries: false,
			StopIfGoingOnBatteries:     false,
			StartWhenAvailable:         true,
			Enabled:                    true,
		},
		Actions: actions{
			Context: "Author",
			Exec:    execAction{Command: command},
		},
	}
}

// buildOnceTaskXML renders the task definition for a one-shot trigger at
// the given local instant
func buildOnceTaskXML(command string, at time.Time, description string) ([]byte, error) {
	def := newTaskDef(command, description)
	def.Triggers.TimeTrigger = &timeTrigger{
		StartBoundary: at.Format(startBoundaryLayout),
		Enabled:       true,
	}
	return marshalTask(def)
}

// buildLogonTaskXML renders the task definition for an at-logon trigger
func buildLogonTaskXML(command, description string) ([]byte, error) {
	def := newTaskDef(command, description)
	def.Triggers.LogonTrigger = &logonTrigger{Enabled: true}
	return marshalTask(def)
}

func marshalTask(def taskDef) ([]byte, error) {
	body, err := xml.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task definition: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
