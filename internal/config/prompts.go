package config

// Built-in prompt templates. Each asks for strict JSON matching the schema
// the gen package parses; the positional arguments are documented above each
// template.

// args: caption, product info, offer info
const defaultBlueprintPrompt = `You are a direct-response ad strategist. Analyze the attached reference ad.
Caption: %s
Product info: %s
Offer info: %s

Extract the strategic blueprint. Respond with ONLY a JSON object:
{"blueprint": {"product": "", "persona": {"description": "", "age": "", "creator_type": ""}, "sales_mechanism": "", "offer": "", "tone": ""}}`

// args: blueprint JSON, existing persona descriptions, count
const defaultPersonasPrompt = `Strategic blueprint:
%s

Existing personas (do not repeat them):
%s

Invent %d new, clearly distinct buyer personas for this product.
Respond with ONLY a JSON object:
{"personas": [{"description": "", "age": "", "creator_type": ""}]}`

// args: blueprint JSON, persona JSON
const defaultPainDesiresPrompt = `Strategic blueprint:
%s

Persona:
%s

List the 2 sharpest pains and the 2 strongest desires this persona has around the product.
Respond with ONLY a JSON object:
{"pain_desires": [{"kind": "Pain", "text": ""}, {"kind": "Desire", "text": ""}]}`

// args: blueprint JSON, persona JSON, pain/desire JSON
const defaultObjectionsPrompt = `Strategic blueprint:
%s

Persona:
%s

Pain or desire in focus:
%s

List the top objections keeping this persona from buying, each with a one-line counter.
Respond with ONLY a JSON object:
{"objections": [{"text": "", "counter": ""}]}`

// args: blueprint JSON, persona JSON, objection JSON
const defaultOffersPrompt = `Strategic blueprint:
%s

Persona:
%s

Objection to neutralize:
%s

Propose offer structures that defuse the objection.
Respond with ONLY a JSON object:
{"offers": [{"name": "", "description": "", "principle": ""}]}`

// args: blueprint JSON, persona JSON, awareness stage, objection JSON, pain/desire JSON, offer JSON
const defaultAnglesPrompt = `Strategic blueprint:
%s

Persona:
%s
Awareness stage: %s
Objection: %s
Pain/desire: %s
Offer: %s

Write distinct messaging angles fitting this exact strategic position.
Respond with ONLY a JSON object:
{"angles": ["", ""]}`

// args: blueprint JSON, persona JSON, angle, awareness stage
const defaultTriggersPrompt = `Strategic blueprint:
%s

Persona:
%s
Angle: %s
Awareness stage: %s

List psychological triggers that make this angle land.
Respond with ONLY a JSON object:
{"triggers": [{"name": "", "description": "", "example": "", "rationale": ""}]}`

// args: trigger name, blueprint JSON, persona JSON, angle
const defaultTriggerDetailsPrompt = `Expand the psychological trigger "%s" into a structured definition.
Strategic blueprint:
%s
Persona:
%s
Angle: %s

Respond with ONLY a JSON object:
{"trigger": {"name": "", "description": "", "example": "", "rationale": ""}}`

// args: request JSON (blueprint + full strategic context), count
const defaultCreativesPrompt = `Strategic context:
%s

Generate %d complete ad concepts for this exact strategic position, one each
entering through an Emotional, Logical and Social framing (cycle if more are
asked).
Respond with ONLY a JSON object:
{"concepts": [{"angle": "", "trigger": {"name": "", "description": "", "example": "", "rationale": ""}, "format": "", "placement": "", "awareness_stage": "", "offer": {"name": "", "description": "", "principle": ""}, "persona_description": "", "persona_age": "", "persona_creator_type": "", "hook": "", "headline": "", "visual_vehicle": "", "visual_prompt": "", "carousel_slides": [], "ad_set_name": "", "entry_point": "Emotional"}]}`

// args: base concept JSON, blueprint JSON, axis, new value JSON
const defaultEvolvePrompt = `Base ad concept:
%s

Strategic blueprint:
%s

Evolve the concept by changing ONLY its %s to:
%s
Keep every other strategic choice identical; rewrite copy and visuals just
enough to stay coherent.
Respond with ONLY a JSON object:
{"concepts": [{...same schema as the base concept...}]}`

// args: base concept JSON, blueprint JSON, pivot type, pivot config JSON
const defaultPivotPrompt = `Base ad concept:
%s

Strategic blueprint:
%s

Apply a "%s" pivot with this configuration:
%s
Rewrite persona fields, copy and visuals together as the pivot demands while
keeping angle, trigger and format constant unless the pivot axis itself
changes them.
Respond with ONLY a JSON object:
{"concepts": [{...same schema as the base concept...}]}`

// args: component, DNA JSON, base concept JSON, blueprint JSON, count
const defaultRemixPrompt = `One ad concept's full strategic DNA:
component under review: %s
%s

Base concept:
%s

Strategic blueprint:
%s

Suggest %d alternative values for the component under review.
Respond with ONLY a JSON object:
{"suggestions": [{"title": "", "description": "", "payload": {}}]}`
