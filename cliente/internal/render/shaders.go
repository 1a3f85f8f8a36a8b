package render

// O terreno usa cor por vértice (paleta já escurecida pelo AO) e neblina exponencial.
const terrainVertexShader = `
#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
in vec4 vertexColor;

uniform mat4 mvp;
uniform mat4 matModel;

out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragWorldPos;

void main() {
    fragColor = vertexColor;
    fragNormal = vertexNormal;
    fragWorldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const terrainFragmentShader = `
#version 330
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragWorldPos;

uniform vec4 colDiffuse;
uniform vec3 camPos;
uniform vec3 fogColor;
uniform float fogDensity;

out vec4 finalColor;

void main() {
    vec3 baseColor = fragColor.rgb * colDiffuse.rgb;

    // ===== NEBLINA (Fog exponencial quadrática) =====
    float dist = length(fragWorldPos - camPos);
    float fogFactor = exp(-pow(dist * fogDensity, 2.0));
    fogFactor = clamp(fogFactor, 0.0, 1.0);

    finalColor = vec4(mix(fogColor, baseColor, fogFactor), 1.0);
}
`
